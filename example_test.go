package docrender_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/VamsiKurapati/docrender"
)

// Example assembles a one-page document without launching an engine.
// Use Render instead of Markup to produce the PDF (requires Chrome).
func Example() {
	doc, err := docrender.Parse([]byte(`{
		"pages": [{
			"width": 800, "height": 600,
			"background": {"type": "color", "value": "#fafafa"},
			"elements": [
				{"type": "text", "x": 10, "y": 20, "width": 200, "height": 50, "text": "Hello\nWorld"},
				{"type": "shape", "kind": "star", "x": 300, "y": 100, "width": 120, "height": 120, "fill": "#f5a623"}
			]
		}]
	}`))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	r := docrender.NewRenderer()
	result, err := r.Markup(context.Background(), doc)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(result.Pages, strings.Contains(string(result.HTML), "Hello<br>World"))
	// Output: 1 true
}

// Example_degraded shows an unresolvable asset turning into a placeholder.
func Example_degraded() {
	doc, _ := docrender.Parse([]byte(`{"pages":[{"width":100,"height":100,"elements":[
		{"type":"image","src":"cloud:photo.jpg","x":0,"y":0,"width":50,"height":50}]}]}`))

	r := docrender.NewRenderer() // no asset endpoints configured
	result, err := r.Markup(context.Background(), doc)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, d := range result.Degraded {
		fmt.Printf("page %d element %d: %s\n", d.Page, d.Index, d.Message)
	}
	// Output: page 1 element 0: Failed to load image: cloud asset "photo.jpg": no endpoint configured for scheme: cloud
}
