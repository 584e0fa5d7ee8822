package pipeline

import (
	_ "embed"
	"sort"
	"strconv"
	"strings"

	"github.com/VamsiKurapati/docrender/internal/document"
)

//go:embed styles/page.css
var baseStyle string

// Compile renders one element. key identifies the element within its
// document and must be unique per document. Unknown element types compile
// to an empty string.
func Compile(el document.Element, key string) string {
	switch e := el.(type) {
	case *document.Text:
		return compileText(e)
	case *document.Image:
		return compileImage(e)
	case *document.Vector:
		return compileVector(e)
	case *document.Shape:
		return compileShape(e, key)
	default:
		return ""
	}
}

// ElementKey names the element at index i (declaration order) on page n,
// counting pages from 1.
func ElementKey(page, index int) string {
	return "p" + strconv.Itoa(page) + "-e" + strconv.Itoa(index)
}

// PaintOrder returns element indices sorted by ascending z-index. Equal
// z-indices keep declaration order, so later elements paint on top.
func PaintOrder(elements []document.Element) []int {
	order := make([]int, len(elements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return elements[order[a]].Bounds().ZIndex < elements[order[b]].Bounds().ZIndex
	})
	return order
}

// Assemble compiles a whole document into one HTML string. Image sources
// must already be resolved. The document must have at least one page.
func Assemble(doc *document.Document) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	if len(doc.Pages) > 0 {
		first := doc.Pages[0]
		b.WriteString("@page { size: " + px(first.Width) + " " + px(first.Height) + "; margin: 0; }\n")
	}
	b.WriteString(baseStyle)
	b.WriteString("</style>\n</head>\n<body>\n")

	for i := range doc.Pages {
		writePage(&b, &doc.Pages[i], i+1, i == len(doc.Pages)-1)
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writePage(b *strings.Builder, p *document.Page, n int, last bool) {
	s := &css{}
	s.set("position", "relative").
		set("width", px(p.Width)).
		set("height", px(p.Height)).
		set("overflow", "hidden")
	backgroundCSS(s, p.Background)
	if !last {
		s.set("page-break-after", "always").
			set("break-after", "page")
	}
	s.set("page-break-inside", "avoid").
		set("break-inside", "avoid")

	b.WriteString(`<div class="page" data-page="` + strconv.Itoa(n) + `" style="` + s.attr() + `">` + "\n")
	for _, idx := range PaintOrder(p.Elements) {
		frag := Compile(p.Elements[idx], ElementKey(n, idx))
		if frag == "" {
			continue
		}
		b.WriteString(frag)
		b.WriteByte('\n')
	}
	b.WriteString("</div>\n")
}
