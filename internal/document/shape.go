package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ShapeKind names a shape geometry generator.
type ShapeKind string

// Shape kinds. Kinds outside this list render as rectangles.
const (
	ShapeRectangle        ShapeKind = "rectangle"
	ShapeRoundedRectangle ShapeKind = "rounded-rectangle"
	ShapeCircle           ShapeKind = "circle"
	ShapeEllipse          ShapeKind = "ellipse"
	ShapeTriangle         ShapeKind = "triangle"
	ShapeRightTriangle    ShapeKind = "right-triangle"
	ShapeDiamond          ShapeKind = "diamond"
	ShapePentagon         ShapeKind = "pentagon"
	ShapeHexagon          ShapeKind = "hexagon"
	ShapeOctagon          ShapeKind = "octagon"
	ShapeStar             ShapeKind = "star"
	ShapeLine             ShapeKind = "line"
	ShapeParallelogram    ShapeKind = "parallelogram"
	ShapeTrapezoid        ShapeKind = "trapezoid"
	ShapeChevron          ShapeKind = "chevron"
	ShapeBookmark         ShapeKind = "bookmark"
	ShapeHeart            ShapeKind = "heart"
	ShapeCloud            ShapeKind = "cloud"
	ShapeSun              ShapeKind = "sun"
	ShapeCrescent         ShapeKind = "crescent"
	ShapeSpeechBubble     ShapeKind = "speech-bubble"
	ShapeArrowRight       ShapeKind = "arrow-right"
	ShapeArrowLeft        ShapeKind = "arrow-left"
	ShapeArrowUp          ShapeKind = "arrow-up"
	ShapeArrowDown        ShapeKind = "arrow-down"
	ShapeDoubleArrow      ShapeKind = "double-arrow"
	ShapeLightning        ShapeKind = "lightning"
	ShapePlus             ShapeKind = "plus"
	ShapeMinus            ShapeKind = "minus"
	ShapeCross            ShapeKind = "cross"
	ShapeExclamation      ShapeKind = "exclamation"
	ShapeCheckmark        ShapeKind = "checkmark"
)

// DashPattern is a stroke dash array. It decodes from a JSON array of
// numbers or from a string such as "5,3" or "5 3".
type DashPattern []float64

// UnmarshalJSON accepts both array and string forms.
func (d *DashPattern) UnmarshalJSON(data []byte) error {
	var nums []float64
	if err := json.Unmarshal(data, &nums); err == nil {
		*d = nums
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("dashPattern: want array or string: %w", err)
	}
	p, err := ParseDashPattern(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// ParseDashPattern parses a comma or space separated list of lengths.
func ParseDashPattern(s string) (DashPattern, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, nil
	}
	out := make(DashPattern, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("dashPattern: %q: %w", f, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("dashPattern: negative length %g", v)
		}
		out = append(out, v)
	}
	return out, nil
}
