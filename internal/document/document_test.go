package document

import (
	"encoding/json"
	"errors"
	"testing"
)

const sampleJSON = `{
  "pages": [
    {
      "width": 800, "height": 1000,
      "background": {"type": "color", "value": "#ffffff"},
      "elements": [
        {"type": "text", "x": 10, "y": 20, "width": 200, "height": 50, "zIndex": 0,
         "text": "Hello\nWorld", "fontSize": 16},
        {"type": "image", "x": 0, "y": 0, "width": 100, "height": 100, "zIndex": 2,
         "properties": {"src": "template:logo.png", "fit": "contain"}},
        {"type": "shape", "kind": "star", "x": 5, "y": 5, "width": 60, "height": 40,
         "fill": "#f00", "dashPattern": "4,2", "opacity": 0.5},
        {"type": "svg", "x": 1, "y": 2, "width": 3, "height": 4, "rawMarkup": "<svg></svg>"},
        {"type": "chart", "x": 1, "y": 1, "width": 1, "height": 1}
      ]
    }
  ]
}`

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(doc.Pages))
	}
	page := doc.Pages[0]
	if page.Background == nil || page.Background.Kind != BackgroundColor {
		t.Errorf("background = %+v, want color", page.Background)
	}
	if len(page.Elements) != 5 {
		t.Fatalf("elements = %d, want 5", len(page.Elements))
	}

	text, ok := page.Elements[0].(*Text)
	if !ok {
		t.Fatalf("element 0 is %T, want *Text", page.Elements[0])
	}
	if text.Text != "Hello\nWorld" || text.FontSize != 16 || text.X != 10 || text.Y != 20 {
		t.Errorf("text = %+v", text)
	}

	img, ok := page.Elements[1].(*Image)
	if !ok {
		t.Fatalf("element 1 is %T, want *Image", page.Elements[1])
	}
	if img.Src != "template:logo.png" || img.Fit != FitContain || img.ZIndex != 2 {
		t.Errorf("image = %+v", img)
	}

	shape, ok := page.Elements[2].(*Shape)
	if !ok {
		t.Fatalf("element 2 is %T, want *Shape", page.Elements[2])
	}
	if shape.Kind != ShapeStar || shape.Alpha() != 0.5 {
		t.Errorf("shape = %+v", shape)
	}
	if len(shape.DashPattern) != 2 || shape.DashPattern[0] != 4 || shape.DashPattern[1] != 2 {
		t.Errorf("dashPattern = %v, want [4 2]", shape.DashPattern)
	}

	if v, ok := page.Elements[3].(*Vector); !ok || v.Markup != "<svg></svg>" {
		t.Errorf("element 3 = %#v, want vector", page.Elements[3])
	}

	u, ok := page.Elements[4].(*Unknown)
	if !ok || u.Type != "chart" {
		t.Errorf("element 4 = %#v, want unknown chart", page.Elements[4])
	}
}

func TestParse_YAML(t *testing.T) {
	t.Parallel()

	data := []byte(`
pages:
  - width: 600
    height: 400
    elements:
      - type: shape
        kind: hexagon
        x: 1
        y: 2
        width: 30
        height: 20
`)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 || len(doc.Pages[0].Elements) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	if s, ok := doc.Pages[0].Elements[0].(*Shape); !ok || s.Kind != ShapeHexagon {
		t.Errorf("element = %#v, want hexagon shape", doc.Pages[0].Elements[0])
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"empty", "   "},
		{"malformed json", `{"pages": [`},
		{"bad element geometry", `{"pages":[{"width":1,"height":1,"elements":[{"type":"text","x":"left"}]}]}`},
		{"bad dash pattern", `{"pages":[{"width":1,"height":1,"elements":[{"type":"shape","dashPattern":"a,b"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrDecode) {
				t.Errorf("error = %v, want ErrDecode", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{"nil", nil, ErrEmptyDocument},
		{"no pages", &Document{}, ErrEmptyDocument},
		{"zero width", &Document{Pages: []Page{{Width: 0, Height: 10}}}, ErrInvalidPageSize},
		{"negative height", &Document{Pages: []Page{{Width: 10, Height: -1}}}, ErrInvalidPageSize},
		{"valid", &Document{Pages: []Page{{Width: 10, Height: 10}}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.doc.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClone_Independent(t *testing.T) {
	t.Parallel()

	opacity := 0.3
	orig := &Document{Pages: []Page{{
		Width: 10, Height: 10,
		Background: &Background{Kind: BackgroundImage, Value: "cloud:bg.png"},
		Elements: []Element{
			&Image{Src: "cloud:a.png"},
			&Shape{Kind: ShapeStar, Opacity: &opacity, DashPattern: DashPattern{1, 2}},
		},
	}}}

	cp := orig.Clone()
	cp.Pages[0].Background.Value = "changed"
	cp.Pages[0].Elements[0].(*Image).Src = "data:image/png;base64,AA=="
	*cp.Pages[0].Elements[1].(*Shape).Opacity = 1
	cp.Pages[0].Elements[1].(*Shape).DashPattern[0] = 9

	if orig.Pages[0].Background.Value != "cloud:bg.png" {
		t.Error("background shared between clone and original")
	}
	if orig.Pages[0].Elements[0].(*Image).Src != "cloud:a.png" {
		t.Error("image shared between clone and original")
	}
	if *orig.Pages[0].Elements[1].(*Shape).Opacity != 0.3 {
		t.Error("opacity shared between clone and original")
	}
	if orig.Pages[0].Elements[1].(*Shape).DashPattern[0] != 1 {
		t.Error("dash pattern shared between clone and original")
	}
}

func TestPage_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("reparse: %v (%s)", err, data)
	}
	if len(again.Pages[0].Elements) != 5 {
		t.Fatalf("elements = %d, want 5", len(again.Pages[0].Elements))
	}
	if _, ok := again.Pages[0].Elements[2].(*Shape); !ok {
		t.Errorf("element 2 is %T after round trip", again.Pages[0].Elements[2])
	}
	if u, ok := again.Pages[0].Elements[4].(*Unknown); !ok || u.Type != "chart" {
		t.Errorf("element 4 = %#v after round trip", again.Pages[0].Elements[4])
	}
}
