package pipeline

import (
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/VamsiKurapati/docrender/internal/document"
)

const (
	defaultLineWidth   = 2
	defaultLineColor   = "#000000"
	defaultShadowColor = "rgba(0,0,0,0.3)"
	defaultShadowBlur  = 4
	svgNS              = "http://www.w3.org/2000/svg"
)

// paint is the styling shared by every shape geometry.
type paint struct {
	fill        string
	stroke      string
	strokeWidth float64
	dash        document.DashPattern
	opacity     float64
	filterID    string
}

func (p paint) attrs() string {
	var b strings.Builder
	b.WriteString(` fill="` + html.EscapeString(p.fill) + `"`)
	b.WriteString(` stroke="` + html.EscapeString(p.stroke) + `"`)
	if p.stroke != "none" && p.strokeWidth > 0 {
		b.WriteString(` stroke-width="` + num(p.strokeWidth) + `"`)
		b.WriteString(` stroke-linejoin="round"`)
	}
	if len(p.dash) > 0 {
		parts := make([]string, len(p.dash))
		for i, d := range p.dash {
			parts[i] = num(d)
		}
		b.WriteString(` stroke-dasharray="` + strings.Join(parts, " ") + `"`)
	}
	b.WriteString(` opacity="` + num(p.opacity) + `"`)
	if p.filterID != "" {
		b.WriteString(` filter="url(#` + p.filterID + `)"`)
	}
	return b.String()
}

// stroked returns a copy that draws with a stroke only.
func (p paint) stroked() paint {
	if p.stroke == "none" {
		p.stroke = p.fill
	}
	if p.stroke == "none" {
		p.stroke = defaultLineColor
	}
	if p.strokeWidth <= 0 {
		p.strokeWidth = defaultLineWidth
	}
	p.fill = "none"
	return p
}

func shapePaint(s *document.Shape) paint {
	p := paint{
		fill:        orNone(s.Fill),
		stroke:      orNone(s.Stroke),
		strokeWidth: s.StrokeWidth,
		dash:        s.DashPattern,
		opacity:     math.Max(0, math.Min(1, s.Alpha())),
	}
	if s.Kind == document.ShapeLine {
		p = p.stroked()
	}
	return p
}

func orNone(v string) string {
	if strings.TrimSpace(v) == "" {
		return "none"
	}
	return v
}

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// compileShape renders a shape as a positioned inline SVG. key must be
// unique within the document; it names the shadow filter.
func compileShape(s *document.Shape, key string) string {
	p := shapePaint(s)

	w, h := math.Max(extent(s.Width), 1), math.Max(extent(s.Height), 1)
	inset := 0.0
	if p.stroke != "none" && p.strokeWidth > 0 {
		inset = p.strokeWidth / 2
	}
	a := area{x: inset, y: inset, w: math.Max(w-2*inset, 0), h: math.Max(h-2*inset, 0)}

	var defs string
	if s.Shadow {
		p.filterID = "shadow-" + unsafeIDChars.ReplaceAllString(key, "_")
		defs = shadowFilter(s, p.filterID)
	}

	gen, ok := generators[s.Kind]
	if !ok {
		gen = rectangle
	}

	st := place(s.Frame)
	st.set("overflow", "visible")

	return `<svg class="el el-shape" xmlns="` + svgNS + `" width="` + num(w) + `" height="` + num(h) +
		`" viewBox="0 0 ` + num(w) + ` ` + num(h) + `" preserveAspectRatio="none" style="` + st.attr() + `">` +
		defs + gen(a, p, s) + `</svg>`
}

func shadowFilter(s *document.Shape, id string) string {
	blur := s.ShadowBlur
	if blur <= 0 {
		blur = defaultShadowBlur
	}
	color := s.ShadowColor
	if color == "" {
		color = defaultShadowColor
	}
	offset := math.Max(1, blur/2)
	return `<defs><filter id="` + id + `" x="-50%" y="-50%" width="200%" height="200%">` +
		`<feDropShadow dx="` + num(offset) + `" dy="` + num(offset) + `" stdDeviation="` + num(blur/2) +
		`" flood-color="` + html.EscapeString(color) + `"/></filter></defs>`
}
