package pipeline

import (
	"html"
	"strings"

	"github.com/VamsiKurapati/docrender/internal/document"
)

// Text defaults.
const (
	defaultFontSize   = 16
	defaultFontFamily = "sans-serif"
	defaultTextColor  = "#000000"
	bulletGlyph       = "• "
)

func compileText(t *document.Text) string {
	s := place(t.Frame)

	size := t.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	family := t.FontFamily
	if family == "" {
		family = defaultFontFamily
	}
	color := t.Color
	if color == "" {
		color = defaultTextColor
	}

	s.set("margin", "0").
		set("padding", "0").
		set("font-size", px(size)).
		set("font-family", family).
		set("color", color)

	if t.Bold {
		s.set("font-weight", "bold")
	}
	if t.Italic {
		s.set("font-style", "italic")
	}
	if t.Underline {
		s.set("text-decoration", "underline")
	}
	if align := textAlign(t.TextAlign); align != "" {
		s.set("text-align", align)
	}
	if t.LineHeight > 0 {
		s.set("line-height", num(t.LineHeight))
	}
	if t.LetterSpacing != 0 {
		s.set("letter-spacing", px(t.LetterSpacing))
	}

	s.set("overflow", "hidden").
		set("white-space", "pre-wrap").
		set("word-wrap", "break-word").
		set("overflow-wrap", "break-word")

	return `<div class="el el-text" style="` + s.attr() + `">` + textBody(t.Text, t.ListStyle) + `</div>`
}

// textBody escapes the text and turns newlines into <br>. With the bullet
// list style every non-blank line gets a bullet glyph.
func textBody(text, listStyle string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	bullet := listStyle == document.ListStyleBullet
	for i, line := range lines {
		if bullet && strings.TrimSpace(line) != "" {
			line = bulletGlyph + line
		}
		lines[i] = html.EscapeString(line)
	}
	return strings.Join(lines, "<br>")
}

func textAlign(v string) string {
	switch v {
	case "left", "center", "right", "justify":
		return v
	}
	return ""
}
