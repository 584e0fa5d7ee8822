// Package document defines the design document model: pages holding
// absolutely positioned text, image, vector and shape elements.
//
// Element is a closed tagged union. Decoding never fails on an unknown
// element type; it produces an *Unknown element that compiles to nothing.
package document

import (
	"errors"
	"fmt"
)

// Sentinel errors for document validation.
var (
	ErrEmptyDocument   = errors.New("document has no pages")
	ErrInvalidPageSize = errors.New("invalid page size")
	ErrDecode          = errors.New("failed to decode document")
)

// Document is an ordered sequence of pages.
type Document struct {
	Pages []Page `json:"pages"`
}

// Page is one fixed-size canvas. Elements keep their declaration order;
// paint order is derived from ZIndex at assembly time.
type Page struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Background *Background `json:"background,omitempty"`
	Elements   []Element   `json:"-"`
}

// BackgroundKind selects how a page background value is interpreted.
type BackgroundKind string

// Background kinds.
const (
	BackgroundColor    BackgroundKind = "color"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
	BackgroundSVG      BackgroundKind = "svg"
)

// Background describes a page background. Error is set by the asset
// resolver when an image reference could not be fetched.
type Background struct {
	Kind  BackgroundKind `json:"type"`
	Value string         `json:"value"`
	Error string         `json:"error,omitempty"`
}

// Validate rejects documents that cannot produce a physical page.
func (d *Document) Validate() error {
	if d == nil || len(d.Pages) == 0 {
		return ErrEmptyDocument
	}
	for i, p := range d.Pages {
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("%w: page %d is %gx%g", ErrInvalidPageSize, i+1, p.Width, p.Height)
		}
	}
	return nil
}

// Clone returns a copy that shares no mutable state with d.
// Raw strings are shared since Go strings are immutable.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Pages: make([]Page, len(d.Pages))}
	for i, p := range d.Pages {
		cp := Page{Width: p.Width, Height: p.Height}
		if p.Background != nil {
			bg := *p.Background
			cp.Background = &bg
		}
		cp.Elements = make([]Element, len(p.Elements))
		for j, el := range p.Elements {
			cp.Elements[j] = cloneElement(el)
		}
		out.Pages[i] = cp
	}
	return out
}

// Images returns every image element of the document in page order.
// The returned pointers alias the document's elements.
func (d *Document) Images() []*Image {
	var images []*Image
	for _, p := range d.Pages {
		for _, el := range p.Elements {
			if img, ok := el.(*Image); ok {
				images = append(images, img)
			}
		}
	}
	return images
}

func cloneElement(el Element) Element {
	switch e := el.(type) {
	case *Text:
		c := *e
		return &c
	case *Image:
		c := *e
		return &c
	case *Vector:
		c := *e
		return &c
	case *Shape:
		c := *e
		c.DashPattern = append(DashPattern(nil), e.DashPattern...)
		if e.Opacity != nil {
			o := *e.Opacity
			c.Opacity = &o
		}
		return &c
	case *Unknown:
		c := *e
		return &c
	default:
		return el
	}
}
