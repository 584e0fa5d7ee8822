package pipeline

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/VamsiKurapati/docrender/internal/document"
)

func compileVector(v *document.Vector) string {
	s := place(v.Frame)
	s.set("overflow", "hidden")
	return `<div class="el el-vector" style="` + s.attr() + `">` + sizeSVG(v.Markup, extent(v.Width), extent(v.Height)) + `</div>`
}

// sizeSVG adds width, height and viewBox attributes to the root <svg> tag
// when the markup does not declare them, so the graphic fills its box.
// Markup without an <svg> tag is returned unchanged.
func sizeSVG(markup string, w, h float64) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return markup
		}
		raw := z.Raw()
		start := offset
		offset += len(raw)

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "svg" {
			continue
		}

		var hasW, hasH, hasViewBox bool
		for hasAttr {
			var key []byte
			key, _, hasAttr = z.TagAttr()
			switch string(key) {
			case "width":
				hasW = true
			case "height":
				hasH = true
			case "viewbox":
				hasViewBox = true
			}
		}

		var extra strings.Builder
		if !hasW {
			extra.WriteString(` width="` + num(w) + `"`)
		}
		if !hasH {
			extra.WriteString(` height="` + num(h) + `"`)
		}
		if !hasViewBox {
			extra.WriteString(` viewBox="0 0 ` + num(w) + ` ` + num(h) + `"`)
		}
		if extra.Len() == 0 {
			return markup
		}

		// Insert before the closing ">" or "/>".
		end := start + len(raw) - 1
		if bytes.HasSuffix(raw, []byte("/>")) {
			end--
		}
		return markup[:end] + extra.String() + markup[end:]
	}
}
