package document

// Type is the element discriminator found in the "type" field.
type Type string

// Element types.
const (
	TypeText   Type = "text"
	TypeImage  Type = "image"
	TypeVector Type = "svg"
	TypeShape  Type = "shape"
)

// Frame holds the geometry shared by all elements, in page-local pixels.
// Rotation is in degrees around the box center.
type Frame struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ZIndex   float64 `json:"zIndex"`
}

// Bounds returns the element frame.
func (f Frame) Bounds() Frame { return f }

// Element is one of *Text, *Image, *Vector, *Shape or *Unknown.
type Element interface {
	Bounds() Frame
	isElement()
}

// Text is a block of plain text. Newlines are hard line breaks.
type Text struct {
	Frame
	Text          string  `json:"text"`
	FontSize      float64 `json:"fontSize"`
	FontFamily    string  `json:"fontFamily"`
	Color         string  `json:"color"`
	Bold          bool    `json:"bold"`
	Italic        bool    `json:"italic"`
	Underline     bool    `json:"underline"`
	TextAlign     string  `json:"textAlign"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
	ListStyle     string  `json:"listStyle"`
}

// ListStyleBullet prefixes every non-blank line with a bullet glyph.
const ListStyleBullet = "bullet"

// Fit modes for images.
const (
	FitContain   = "contain"
	FitStretch   = "stretch"
	FitScaleDown = "scale-down"
	FitCover     = "cover"
)

// Image displays a raster or vector image. Src is either a data: URI or an
// asset reference that must be resolved before compilation. Error carries
// the resolution failure, in which case Src is left untouched.
type Image struct {
	Frame
	Src            string  `json:"src"`
	Fit            string  `json:"fit"`
	BorderRadius   float64 `json:"borderRadius"`
	FlipHorizontal bool    `json:"flipHorizontal"`
	FlipVertical   bool    `json:"flipVertical"`
	Error          string  `json:"error,omitempty"`
}

// Failed reports whether asset resolution failed for this image.
func (i *Image) Failed() bool { return i.Error != "" }

// Vector embeds raw SVG markup stretched to the element box.
type Vector struct {
	Frame
	Markup string `json:"rawMarkup"`
}

// Shape is a procedurally generated vector shape.
type Shape struct {
	Frame
	Kind         ShapeKind   `json:"kind"`
	Fill         string      `json:"fill"`
	Stroke       string      `json:"stroke"`
	StrokeWidth  float64     `json:"strokeWidth"`
	Opacity      *float64    `json:"opacity,omitempty"`
	CornerRadius float64     `json:"cornerRadius"`
	DashPattern  DashPattern `json:"dashPattern,omitempty"`
	Shadow       bool        `json:"shadow"`
	ShadowBlur   float64     `json:"shadowBlur"`
	ShadowColor  string      `json:"shadowColor"`
}

// Alpha returns the shape opacity, defaulting to fully opaque.
func (s *Shape) Alpha() float64 {
	if s.Opacity == nil {
		return 1
	}
	return *s.Opacity
}

// Unknown is an element whose type is not recognized.
type Unknown struct {
	Frame
	Type string `json:"type"`
}

func (*Text) isElement()    {}
func (*Image) isElement()   {}
func (*Vector) isElement()  {}
func (*Shape) isElement()   {}
func (*Unknown) isElement() {}
