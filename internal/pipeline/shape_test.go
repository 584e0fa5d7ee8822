package pipeline

import (
	"strings"
	"testing"

	"github.com/VamsiKurapati/docrender/internal/document"
)

func ptr(v float64) *float64 { return &v }

func TestCompileShape_AllKinds(t *testing.T) {
	t.Parallel()

	for kind := range generators {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			got := Compile(&document.Shape{
				Frame: document.Frame{Width: 240, Height: 90},
				Kind:  kind, Fill: "#123456", Stroke: "#000", StrokeWidth: 2,
			}, "k")
			if !strings.HasPrefix(got, `<svg class="el el-shape"`) || !strings.HasSuffix(got, "</svg>") {
				t.Fatalf("not an svg fragment:\n%s", got)
			}
			if strings.Contains(got, "NaN") || strings.Contains(got, "Inf") {
				t.Errorf("invalid coordinates:\n%s", got)
			}
			if !strings.Contains(got, `viewBox="0 0 240 90"`) {
				t.Errorf("viewport does not match box:\n%s", got)
			}
		})
	}
}

func TestCompileShape_UnknownKindIsRectangle(t *testing.T) {
	t.Parallel()

	base := document.Shape{
		Frame: document.Frame{X: 3, Y: 4, Width: 50, Height: 20},
		Fill:  "red", Stroke: "blue", StrokeWidth: 3, Opacity: ptr(0.4),
	}
	unknown, rect := base, base
	unknown.Kind = "blob"
	rect.Kind = document.ShapeRectangle

	got, want := Compile(&unknown, "k"), Compile(&rect, "k")
	if got != want {
		t.Errorf("unknown kind =\n%s\nwant\n%s", got, want)
	}
	for _, attr := range []string{`fill="red"`, `stroke="blue"`, `stroke-width="3"`, `opacity="0.4"`} {
		if !strings.Contains(got, attr) {
			t.Errorf("output missing %s", attr)
		}
	}
}

func TestCompileShape_NonSquare(t *testing.T) {
	t.Parallel()

	got := Compile(&document.Shape{Frame: document.Frame{Width: 200, Height: 100}, Kind: document.ShapeTriangle, Fill: "red"}, "k")
	if !strings.Contains(got, `points="100,0 200,100 0,100"`) {
		t.Errorf("triangle not fitted to 200x100:\n%s", got)
	}

	got = Compile(&document.Shape{Frame: document.Frame{Width: 80, Height: 40}, Kind: document.ShapeCircle}, "k")
	if !strings.Contains(got, `cx="40" cy="20" rx="40" ry="20"`) {
		t.Errorf("circle not stretched to 80x40:\n%s", got)
	}
}

func TestCompileShape_StrokeInset(t *testing.T) {
	t.Parallel()

	got := Compile(&document.Shape{
		Frame: document.Frame{Width: 100, Height: 50},
		Kind:  document.ShapeRectangle, Stroke: "#000", StrokeWidth: 4,
	}, "k")
	if !strings.Contains(got, `<rect x="2" y="2" width="96" height="46"`) {
		t.Errorf("stroke not inset:\n%s", got)
	}
}

func TestCompileShape_Paint(t *testing.T) {
	t.Parallel()

	t.Run("dash pattern omitted unless set", func(t *testing.T) {
		t.Parallel()
		plain := Compile(&document.Shape{Frame: document.Frame{Width: 1, Height: 1}, Kind: document.ShapeRectangle}, "k")
		if strings.Contains(plain, "stroke-dasharray") {
			t.Errorf("unexpected dash array:\n%s", plain)
		}
		dashed := Compile(&document.Shape{
			Frame: document.Frame{Width: 1, Height: 1}, Kind: document.ShapeRectangle,
			Stroke: "#000", StrokeWidth: 1, DashPattern: document.DashPattern{5, 2.5},
		}, "k")
		if !strings.Contains(dashed, `stroke-dasharray="5 2.5"`) {
			t.Errorf("missing dash array:\n%s", dashed)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		got := Compile(&document.Shape{Frame: document.Frame{Width: 10, Height: 10}, Kind: document.ShapeRectangle}, "k")
		if !strings.Contains(got, `fill="none" stroke="none" opacity="1"`) {
			t.Errorf("unexpected default paint:\n%s", got)
		}
	})

	t.Run("line strokes with fill color", func(t *testing.T) {
		t.Parallel()
		got := Compile(&document.Shape{Frame: document.Frame{Width: 100, Height: 10}, Kind: document.ShapeLine, Fill: "#f00"}, "k")
		if !strings.Contains(got, `fill="none" stroke="#f00" stroke-width="2"`) {
			t.Errorf("line paint:\n%s", got)
		}
	})
}

func TestCompileShape_ShadowKeyedPerElement(t *testing.T) {
	t.Parallel()

	s := &document.Shape{Frame: document.Frame{Width: 10, Height: 10}, Kind: document.ShapeStar, Fill: "gold", Shadow: true}
	a := Compile(s, ElementKey(1, 0))
	b := Compile(s, ElementKey(1, 1))

	if !strings.Contains(a, `<filter id="shadow-p1-e0"`) || !strings.Contains(a, `filter="url(#shadow-p1-e0)"`) {
		t.Errorf("first shadow:\n%s", a)
	}
	if !strings.Contains(b, `<filter id="shadow-p1-e1"`) {
		t.Errorf("second shadow:\n%s", b)
	}
	if !strings.Contains(a, "<feDropShadow") {
		t.Errorf("missing drop shadow primitive:\n%s", a)
	}

	plain := Compile(&document.Shape{Frame: document.Frame{Width: 10, Height: 10}}, "k")
	if strings.Contains(plain, "<filter") {
		t.Errorf("shadow emitted without request:\n%s", plain)
	}
}

func TestArea_Fit(t *testing.T) {
	t.Parallel()

	a := area{x: 0, y: 0, w: 100, h: 50}
	got := a.fit([]point{{-1, -1}, {1, 1}, {0, 0}})
	want := []point{{0, 0}, {100, 50}, {50, 25}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fit[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
