package pipeline

import (
	"html"

	"github.com/VamsiKurapati/docrender/internal/document"
)

// MissingSourceText is shown for an image without a source.
const MissingSourceText = "No image source"

func compileImage(img *document.Image) string {
	if img.Failed() {
		return imagePlaceholder(img, img.Error)
	}
	if img.Src == "" {
		return imagePlaceholder(img, MissingSourceText)
	}

	var flips []string
	if img.FlipHorizontal || img.FlipVertical {
		sx, sy := "1", "1"
		if img.FlipHorizontal {
			sx = "-1"
		}
		if img.FlipVertical {
			sy = "-1"
		}
		flips = append(flips, "scale("+sx+","+sy+")")
	}

	s := place(img.Frame, flips...)
	s.set("object-fit", objectFit(img.Fit)).
		set("display", "block")
	if img.BorderRadius > 0 {
		s.set("border-radius", px(img.BorderRadius))
	}

	return `<img class="el el-image" src="` + html.EscapeString(img.Src) + `" alt="" style="` + s.attr() + `">`
}

// imagePlaceholder keeps the image geometry and shows why it is missing.
func imagePlaceholder(img *document.Image, message string) string {
	s := place(img.Frame)
	s.set("display", "flex").
		set("align-items", "center").
		set("justify-content", "center").
		set("box-sizing", "border-box").
		set("padding", "4px").
		set("border", "2px dashed #d1d5db").
		set("background-color", "#f9fafb").
		set("color", "#6b7280").
		set("font-family", defaultFontFamily).
		set("font-size", "12px").
		set("text-align", "center").
		set("overflow", "hidden").
		set("word-break", "break-word")
	if img.BorderRadius > 0 {
		s.set("border-radius", px(img.BorderRadius))
	}
	return `<div class="el el-image-placeholder" style="` + s.attr() + `">` + html.EscapeString(message) + `</div>`
}

func objectFit(fit string) string {
	switch fit {
	case document.FitStretch, "fill":
		return "fill"
	case document.FitScaleDown:
		return "scale-down"
	case document.FitCover:
		return "cover"
	default:
		return "contain"
	}
}
