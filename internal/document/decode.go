package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/VamsiKurapati/docrender/internal/yamlutil"
)

// Parse decodes a document from JSON or YAML. Input starting with '{' is
// treated as JSON; anything else goes through the YAML converter.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	if trimmed[0] != '{' {
		converted, err := yamlutil.ToJSON(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		trimmed = converted
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &doc, nil
}

// UnmarshalJSON decodes a page and its polymorphic elements.
func (p *Page) UnmarshalJSON(data []byte) error {
	type pageFields Page
	var raw struct {
		pageFields
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Page(raw.pageFields)
	p.Elements = make([]Element, 0, len(raw.Elements))
	for i, msg := range raw.Elements {
		el, err := decodeElement(msg)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		p.Elements = append(p.Elements, el)
	}
	return nil
}

// MarshalJSON encodes a page including its elements.
func (p Page) MarshalJSON() ([]byte, error) {
	type pageFields Page
	elements := make([]json.RawMessage, 0, len(p.Elements))
	for _, el := range p.Elements {
		b, err := encodeElement(el)
		if err != nil {
			return nil, err
		}
		elements = append(elements, b)
	}
	return json.Marshal(struct {
		pageFields
		Elements []json.RawMessage `json:"elements"`
	}{pageFields(p), elements})
}

// decodeElement reads the type discriminator and decodes the variant.
// Type-specific fields may sit at the top level or in a nested
// "properties" object; nested values win.
func decodeElement(data []byte) (Element, error) {
	var head struct {
		Type       string          `json:"type"`
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var el Element
	switch Type(head.Type) {
	case TypeText:
		el = &Text{}
	case TypeImage:
		el = &Image{}
	case TypeVector, "vector":
		el = &Vector{}
	case TypeShape:
		el = &Shape{}
	default:
		el = &Unknown{}
	}

	if err := json.Unmarshal(data, el); err != nil {
		return nil, fmt.Errorf("%s: %w", head.Type, err)
	}
	if len(head.Properties) > 0 && !bytes.Equal(head.Properties, []byte("null")) {
		if err := json.Unmarshal(head.Properties, el); err != nil {
			return nil, fmt.Errorf("%s properties: %w", head.Type, err)
		}
	}
	if u, ok := el.(*Unknown); ok {
		u.Type = head.Type
	}
	return el, nil
}

func encodeElement(el Element) ([]byte, error) {
	var t string
	switch e := el.(type) {
	case *Text:
		t = string(TypeText)
	case *Image:
		t = string(TypeImage)
	case *Vector:
		t = string(TypeVector)
	case *Shape:
		t = string(TypeShape)
	case *Unknown:
		return json.Marshal(e)
	}
	body, err := json.Marshal(el)
	if err != nil {
		return nil, err
	}
	if t == "" {
		return body, nil
	}
	// Prepend the discriminator to the variant's own fields.
	prefix, _ := json.Marshal(t)
	if len(body) <= 2 {
		return []byte(`{"type":` + string(prefix) + `}`), nil
	}
	out := make([]byte, 0, len(body)+len(prefix)+9)
	out = append(out, `{"type":`...)
	out = append(out, prefix...)
	out = append(out, ',')
	return append(out, body[1:]...), nil
}
