package pipeline

import (
	"encoding/base64"
	"strings"

	"github.com/VamsiKurapati/docrender/internal/document"
)

// backgroundCSS adds the page background declarations to c. Nothing is
// written for a missing background, an empty value or a failed image.
func backgroundCSS(c *css, bg *document.Background) {
	if bg == nil || bg.Error != "" {
		return
	}
	value := strings.TrimSpace(bg.Value)
	if value == "" {
		return
	}

	switch bg.Kind {
	case document.BackgroundColor:
		c.set("background-color", value)
	case document.BackgroundGradient:
		c.set("background-image", value)
	case document.BackgroundImage:
		coverImage(c, cssURL(value))
	case document.BackgroundSVG:
		coverImage(c, cssURL(svgDataURI(value)))
	}
}

func coverImage(c *css, url string) {
	c.set("background-image", url).
		set("background-size", "cover").
		set("background-position", "center").
		set("background-repeat", "no-repeat")
}

// svgDataURI inlines raw SVG markup. Values that already are URIs pass through.
func svgDataURI(v string) string {
	if strings.HasPrefix(v, "data:") {
		return v
	}
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(v))
}
