// Package assets resolves image asset references to inline data URIs.
//
// Two reference schemes are recognized:
//
//	template:<name>   fetched from the template asset endpoint
//	cloud:<name>      fetched from the cloud asset endpoint
//
// Any other source (data: URIs, plain URLs) passes through unchanged.
// Resolution never fails a document: a failed fetch annotates the image
// with an error message and leaves its source untouched.
package assets

import (
	"encoding/base64"
	"mime"
	"path"
	"strings"
)

// Scheme identifies an asset endpoint.
type Scheme string

// Recognized schemes.
const (
	SchemeTemplate Scheme = "template"
	SchemeCloud    Scheme = "cloud"
)

// Reference is a parsed asset reference.
type Reference struct {
	Scheme Scheme
	Name   string
}

// String returns the reference in its source form.
func (r Reference) String() string {
	return string(r.Scheme) + ":" + r.Name
}

// ParseReference reports whether src is an asset reference and parses it.
func ParseReference(src string) (Reference, bool) {
	scheme, name, ok := strings.Cut(strings.TrimSpace(src), ":")
	if !ok || name == "" {
		return Reference{}, false
	}
	switch Scheme(scheme) {
	case SchemeTemplate, SchemeCloud:
		return Reference{Scheme: Scheme(scheme), Name: name}, true
	}
	return Reference{}, false
}

// Asset is fetched binary content with its media type.
type Asset struct {
	ContentType string
	Data        []byte
}

// DataURI encodes the asset as a base64 data URI.
func (a Asset) DataURI() string {
	return "data:" + a.ContentType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// defaultContentType is used when neither header nor extension is conclusive.
const defaultContentType = "image/png"

var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ContentType picks the media type from the response header, falling back
// to the file extension of name.
func ContentType(header, name string) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil {
			switch mt {
			case "application/octet-stream", "binary/octet-stream":
			default:
				return mt
			}
		}
	}
	return ContentTypeFromName(name)
}

// ContentTypeFromName sniffs the media type from a file extension.
func ContentTypeFromName(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if ct, ok := extensionTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return defaultContentType
}
