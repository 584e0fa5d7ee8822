package pipeline

import (
	"math"

	"github.com/VamsiKurapati/docrender/internal/document"
)

// generator draws one shape geometry inside the area.
type generator func(a area, p paint, s *document.Shape) string

var generators = map[document.ShapeKind]generator{
	document.ShapeRectangle:        rectangle,
	document.ShapeRoundedRectangle: roundedRectangle,
	document.ShapeCircle:           ellipse,
	document.ShapeEllipse:          ellipse,
	document.ShapeTriangle:         poly(point{0.5, 0}, point{1, 1}, point{0, 1}),
	document.ShapeRightTriangle:    poly(point{0, 0}, point{1, 1}, point{0, 1}),
	document.ShapeDiamond:          poly(point{0.5, 0}, point{1, 0.5}, point{0.5, 1}, point{0, 0.5}),
	document.ShapePentagon:         regular(5, -90, 0),
	document.ShapeHexagon:          regular(6, 0, 0),
	document.ShapeOctagon:          regular(8, 22.5, 0),
	document.ShapeStar:             regular(10, -90, 0.382),
	document.ShapeLine:             line,
	document.ShapeParallelogram:    poly(point{0.25, 0}, point{1, 0}, point{0.75, 1}, point{0, 1}),
	document.ShapeTrapezoid:        poly(point{0.2, 0}, point{0.8, 0}, point{1, 1}, point{0, 1}),
	document.ShapeChevron: poly(point{0, 0}, point{0.75, 0}, point{1, 0.5},
		point{0.75, 1}, point{0, 1}, point{0.25, 0.5}),
	document.ShapeBookmark: poly(point{0, 0}, point{1, 0}, point{1, 1}, point{0.5, 0.75}, point{0, 1}),
	document.ShapeHeart:    heart,
	document.ShapeCloud:    cloud,
	document.ShapeSun:      sun,
	document.ShapeCrescent: crescent,

	document.ShapeSpeechBubble: speechBubble,
	document.ShapeArrowRight:   poly(arrowRight...),
	document.ShapeArrowLeft:    poly(mapPoints(arrowRight, func(p point) point { return point{1 - p.x, p.y} })...),
	document.ShapeArrowUp:      poly(mapPoints(arrowRight, func(p point) point { return point{p.y, 1 - p.x} })...),
	document.ShapeArrowDown:    poly(mapPoints(arrowRight, func(p point) point { return point{p.y, p.x} })...),
	document.ShapeDoubleArrow: poly(point{0, 0.5}, point{0.25, 0}, point{0.25, 0.3}, point{0.75, 0.3},
		point{0.75, 0}, point{1, 0.5}, point{0.75, 1}, point{0.75, 0.7}, point{0.25, 0.7}, point{0.25, 1}),
	document.ShapeLightning: poly(point{0.6, 0}, point{0.2, 0.55}, point{0.48, 0.55}, point{0.35, 1},
		point{0.85, 0.4}, point{0.56, 0.4}, point{0.78, 0}),
	document.ShapePlus: poly(point{0.35, 0}, point{0.65, 0}, point{0.65, 0.35}, point{1, 0.35},
		point{1, 0.65}, point{0.65, 0.65}, point{0.65, 1}, point{0.35, 1}, point{0.35, 0.65},
		point{0, 0.65}, point{0, 0.35}, point{0.35, 0.35}),
	document.ShapeMinus: poly(point{0, 0.35}, point{1, 0.35}, point{1, 0.65}, point{0, 0.65}),
	document.ShapeCross: poly(point{0, 0.2}, point{0.2, 0}, point{0.5, 0.3}, point{0.8, 0},
		point{1, 0.2}, point{0.7, 0.5}, point{1, 0.8}, point{0.8, 1}, point{0.5, 0.7},
		point{0.2, 1}, point{0, 0.8}, point{0.3, 0.5}),
	document.ShapeExclamation: exclamation,
	document.ShapeCheckmark: poly(point{0, 0.55}, point{0.14, 0.41}, point{0.38, 0.65},
		point{0.86, 0.12}, point{1, 0.26}, point{0.38, 0.93}),
}

var arrowRight = []point{
	{0, 0.3}, {0.6, 0.3}, {0.6, 0}, {1, 0.5}, {0.6, 1}, {0.6, 0.7}, {0, 0.7},
}

func mapPoints(pts []point, f func(point) point) []point {
	out := make([]point, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out
}

func polygonElement(pts []point, p paint) string {
	return `<polygon points="` + points(pts) + `"` + p.attrs() + `/>`
}

func pathElement(d string, p paint) string {
	return `<path d="` + d + `"` + p.attrs() + `/>`
}

// poly draws fixed fractional vertices.
func poly(frac ...point) generator {
	return func(a area, p paint, _ *document.Shape) string {
		return polygonElement(a.polygon(frac...), p)
	}
}

// regular draws a regular polygon (or a star when inner > 0) stretched to
// fill the area.
func regular(n int, startDeg, inner float64) generator {
	pts := radial(n, startDeg, inner)
	return func(a area, p paint, _ *document.Shape) string {
		return polygonElement(a.fit(pts), p)
	}
}

func rectangle(a area, p paint, s *document.Shape) string {
	return rect(a, p, s.CornerRadius)
}

func roundedRectangle(a area, p paint, s *document.Shape) string {
	r := s.CornerRadius
	if r <= 0 {
		r = math.Min(a.w, a.h) * 0.15
	}
	return rect(a, p, r)
}

func rect(a area, p paint, radius float64) string {
	out := `<rect x="` + num(a.x) + `" y="` + num(a.y) + `" width="` + num(a.w) + `" height="` + num(a.h) + `"`
	if radius > 0 {
		r := math.Min(radius, math.Min(a.w, a.h)/2)
		out += ` rx="` + num(r) + `" ry="` + num(r) + `"`
	}
	return out + p.attrs() + `/>`
}

func ellipse(a area, p paint, _ *document.Shape) string {
	c := a.center()
	return `<ellipse cx="` + num(c.x) + `" cy="` + num(c.y) + `" rx="` + num(a.w/2) + `" ry="` + num(a.h/2) + `"` +
		p.attrs() + `/>`
}

func line(a area, p paint, _ *document.Shape) string {
	y := a.y + a.h/2
	return `<line x1="` + num(a.x) + `" y1="` + num(y) + `" x2="` + num(a.x+a.w) + `" y2="` + num(y) + `"` +
		p.attrs() + `/>`
}

func heart(a area, p paint, _ *document.Shape) string {
	d := (&path{a: a}).
		M(0.5, 0.25).
		C(0.5, 0, 0, 0, 0, 0.3).
		C(0, 0.6, 0.3, 0.75, 0.5, 1).
		C(0.7, 0.75, 1, 0.6, 1, 0.3).
		C(1, 0, 0.5, 0, 0.5, 0.25).
		Z()
	return pathElement(d.String(), p)
}

func cloud(a area, p paint, _ *document.Shape) string {
	d := (&path{a: a}).
		M(0.25, 0.85).
		A(0.2, 0.2, true, true, 0.15, 0.5).
		A(0.22, 0.22, false, true, 0.4, 0.25).
		A(0.25, 0.25, false, true, 0.8, 0.35).
		A(0.2, 0.25, true, true, 0.8, 0.85).
		Z()
	return pathElement(d.String(), p)
}

func sun(a area, p paint, _ *document.Shape) string {
	core := area{x: a.x + a.w*0.25, y: a.y + a.h*0.25, w: a.w * 0.5, h: a.h * 0.5}
	out := ellipse(core, p, nil)

	rays := &path{a: a}
	for i := 0; i < 8; i++ {
		ang := float64(i) * math.Pi / 4
		cos, sin := math.Cos(ang), math.Sin(ang)
		rays.M(0.5+0.33*cos, 0.5+0.33*sin).L(0.5+0.5*cos, 0.5+0.5*sin)
	}
	rp := p.stroked()
	if p.strokeWidth <= 0 {
		rp.strokeWidth = math.Max(defaultLineWidth, math.Min(a.w, a.h)*0.04)
	}
	return out + pathElement(rays.String(), rp)
}

func crescent(a area, p paint, _ *document.Shape) string {
	d := (&path{a: a}).
		M(0.8, 0.1).
		A(0.5, 0.5, true, false, 0.8, 0.9).
		A(0.4, 0.4, true, true, 0.8, 0.1).
		Z()
	return pathElement(d.String(), p)
}

func speechBubble(a area, p paint, _ *document.Shape) string {
	d := (&path{a: a}).
		M(0.1, 0).
		L(0.9, 0).
		Q(1, 0, 1, 0.1).
		L(1, 0.7).
		Q(1, 0.8, 0.9, 0.8).
		L(0.45, 0.8).
		L(0.25, 1).
		L(0.3, 0.8).
		L(0.1, 0.8).
		Q(0, 0.8, 0, 0.7).
		L(0, 0.1).
		Q(0, 0, 0.1, 0).
		Z()
	return pathElement(d.String(), p)
}

func exclamation(a area, p paint, _ *document.Shape) string {
	d := (&path{a: a}).
		M(0.4, 0).L(0.6, 0).L(0.57, 0.7).L(0.43, 0.7).Z().
		M(0.5, 0.78).
		A(0.1, 0.1, true, false, 0.5, 0.98).
		A(0.1, 0.1, true, false, 0.5, 0.78).
		Z()
	return pathElement(d.String(), p)
}
