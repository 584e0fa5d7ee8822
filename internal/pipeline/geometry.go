package pipeline

import (
	"math"
	"strings"
)

type point struct{ x, y float64 }

// area is the drawing area inside an SVG viewport. Generators work in
// fractions of the area so width and height scale independently.
type area struct{ x, y, w, h float64 }

func (a area) at(fx, fy float64) point {
	return point{a.x + fx*a.w, a.y + fy*a.h}
}

func (a area) center() point { return a.at(0.5, 0.5) }

// polygon maps fractional vertices into the area.
func (a area) polygon(frac ...point) []point {
	out := make([]point, len(frac))
	for i, p := range frac {
		out[i] = a.at(p.x, p.y)
	}
	return out
}

// fit stretches arbitrary vertices so their bounding box fills the area.
func (a area) fit(pts []point) []point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	dx, dy := maxX-minX, maxY-minY
	out := make([]point, len(pts))
	for i, p := range pts {
		fx, fy := 0.5, 0.5
		if dx > 0 {
			fx = (p.x - minX) / dx
		}
		if dy > 0 {
			fy = (p.y - minY) / dy
		}
		out[i] = a.at(fx, fy)
	}
	return out
}

// radial returns n vertices on the unit circle starting at startDeg,
// alternating between outer radius 1 and inner when inner > 0.
func radial(n int, startDeg, inner float64) []point {
	step := 2 * math.Pi / float64(n)
	start := startDeg * math.Pi / 180
	pts := make([]point, 0, n)
	for i := 0; i < n; i++ {
		r := 1.0
		if inner > 0 && i%2 == 1 {
			r = inner
		}
		a := start + float64(i)*step
		pts = append(pts, point{r * math.Cos(a), r * math.Sin(a)})
	}
	return pts
}

func points(pts []point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.x) + "," + num(p.y)
	}
	return strings.Join(parts, " ")
}

// path builds SVG path data in fractional area coordinates.
type path struct {
	a area
	b strings.Builder
}

func (p *path) cmd(c string, pts ...point) *path {
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
	p.b.WriteString(c)
	for _, f := range pts {
		q := p.a.at(f.x, f.y)
		p.b.WriteByte(' ')
		p.b.WriteString(num(q.x) + "," + num(q.y))
	}
	return p
}

func (p *path) M(x, y float64) *path { return p.cmd("M", point{x, y}) }
func (p *path) L(x, y float64) *path { return p.cmd("L", point{x, y}) }

func (p *path) Q(cx, cy, x, y float64) *path {
	return p.cmd("Q", point{cx, cy}, point{x, y})
}

func (p *path) C(c1x, c1y, c2x, c2y, x, y float64) *path {
	return p.cmd("C", point{c1x, c1y}, point{c2x, c2y}, point{x, y})
}

// A draws an elliptical arc whose radii are fractions of the area size.
func (p *path) A(rx, ry float64, large, sweep bool, x, y float64) *path {
	if p.b.Len() > 0 {
		p.b.WriteByte(' ')
	}
	q := p.a.at(x, y)
	p.b.WriteString("A " + num(rx*p.a.w) + "," + num(ry*p.a.h) + " 0 " +
		flag(large) + " " + flag(sweep) + " " + num(q.x) + "," + num(q.y))
	return p
}

func (p *path) Z() *path { return p.cmd("Z") }

func (p *path) String() string { return p.b.String() }

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
