package pipeline

import (
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/VamsiKurapati/docrender/internal/document"
)

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0" // avoid "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func px(v float64) string { return num(v) + "px" }

// extent clamps a box dimension to a finite, non-negative value.
func extent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// css accumulates declarations for an inline style attribute.
type css struct {
	b strings.Builder
}

func (c *css) set(prop, value string) *css {
	c.b.WriteString(prop)
	c.b.WriteByte(':')
	c.b.WriteString(value)
	c.b.WriteByte(';')
	return c
}

// attr returns the declarations escaped for a double-quoted attribute.
func (c *css) attr() string {
	return html.EscapeString(c.b.String())
}

// place positions a box at its frame. Extra transforms are applied before
// the rotation, which always turns around the box center.
func place(f document.Frame, transforms ...string) *css {
	c := &css{}
	c.set("position", "absolute").
		set("left", px(f.X)).
		set("top", px(f.Y)).
		set("width", px(extent(f.Width))).
		set("height", px(extent(f.Height)))

	if f.Rotation != 0 {
		transforms = append(transforms, "rotate("+num(f.Rotation)+"deg)")
	}
	if len(transforms) > 0 {
		c.set("transform", strings.Join(transforms, " ")).
			set("transform-origin", "center center")
	}
	return c
}

// cssURL quotes a value for use inside url("...").
func cssURL(v string) string {
	r := strings.NewReplacer(`"`, "%22", "\n", "", "\r", "", `\`, "%5C")
	return `url("` + r.Replace(v) + `")`
}
