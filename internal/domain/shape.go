package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// ShapeType tags the shape union. The tag fully determines which fields of
// Shape are meaningful; Validate rejects instances mixing variant fields.
type ShapeType string

const (
	ShapeRect    ShapeType = "rect"
	ShapeEllipse ShapeType = "ellipse"
	ShapeLine    ShapeType = "line"
	ShapePencil  ShapeType = "pencil"
	ShapeText    ShapeType = "text"
)

// Point is a world-space coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Shape is the tagged union of drawable shapes. All coordinates are
// world-space floating point (post camera-transform). Optional fields are
// pointers so that absent and zero are distinguishable on the wire.
type Shape struct {
	Type ShapeType `json:"type"`

	// rect, ellipse, line, text anchor. For rect this is the top-left,
	// for ellipse the center, for line the first endpoint.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// rect
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	// ellipse
	RX *float64 `json:"rx,omitempty"`
	RY *float64 `json:"ry,omitempty"`

	// line second endpoint
	X2 *float64 `json:"x2,omitempty"`
	Y2 *float64 `json:"y2,omitempty"`

	// pencil
	Points []Point `json:"points,omitempty"`

	// text
	Content    *string  `json:"content,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`
}

// Float returns a pointer to v, for building Shape literals.
func Float(v float64) *float64 { return &v }

// Str returns a pointer to s, for building Shape literals.
func Str(s string) *string { return &s }

// NewRect builds a rect shape. Negative width/height are permitted and mean
// the rect was drawn towards the origin.
func NewRect(x, y, w, h float64) Shape {
	return Shape{Type: ShapeRect, X: x, Y: y, Width: Float(w), Height: Float(h)}
}

// NewEllipse builds an ellipse centered at (x, y).
func NewEllipse(x, y, rx, ry float64) Shape {
	return Shape{Type: ShapeEllipse, X: x, Y: y, RX: Float(rx), RY: Float(ry)}
}

// NewLine builds a line between two literal endpoints.
func NewLine(x, y, x2, y2 float64) Shape {
	return Shape{Type: ShapeLine, X: x, Y: y, X2: Float(x2), Y2: Float(y2)}
}

// NewPencil builds a pencil stroke from an ordered point sequence.
func NewPencil(points []Point) Shape {
	return Shape{Type: ShapePencil, Points: points}
}

// NewText builds a text shape anchored at (x, y).
func NewText(x, y float64, content string, fontSize float64, fontFamily string) Shape {
	return Shape{
		Type: ShapeText, X: x, Y: y,
		Content: Str(content), FontSize: Float(fontSize), FontFamily: Str(fontFamily),
	}
}

// Validate checks that exactly the fields of the tagged variant are present.
func (s *Shape) Validate() error {
	switch s.Type {
	case ShapeRect:
		if s.Width == nil || s.Height == nil {
			return fmt.Errorf("shape: rect requires width and height")
		}
		if s.hasEllipseFields() || s.hasLineFields() || s.hasPencilFields() || s.hasTextFields() {
			return fmt.Errorf("shape: rect carries fields of another variant")
		}
	case ShapeEllipse:
		if s.RX == nil || s.RY == nil {
			return fmt.Errorf("shape: ellipse requires rx and ry")
		}
		if s.hasRectFields() || s.hasLineFields() || s.hasPencilFields() || s.hasTextFields() {
			return fmt.Errorf("shape: ellipse carries fields of another variant")
		}
	case ShapeLine:
		if s.X2 == nil || s.Y2 == nil {
			return fmt.Errorf("shape: line requires x2 and y2")
		}
		if s.hasRectFields() || s.hasEllipseFields() || s.hasPencilFields() || s.hasTextFields() {
			return fmt.Errorf("shape: line carries fields of another variant")
		}
	case ShapePencil:
		if len(s.Points) == 0 {
			return fmt.Errorf("shape: pencil requires at least one point")
		}
		if s.hasRectFields() || s.hasEllipseFields() || s.hasLineFields() || s.hasTextFields() {
			return fmt.Errorf("shape: pencil carries fields of another variant")
		}
	case ShapeText:
		if s.Content == nil || s.FontSize == nil || s.FontFamily == nil {
			return fmt.Errorf("shape: text requires content, fontSize and fontFamily")
		}
		if s.hasRectFields() || s.hasEllipseFields() || s.hasLineFields() || s.hasPencilFields() {
			return fmt.Errorf("shape: text carries fields of another variant")
		}
	default:
		return fmt.Errorf("shape: unknown type %q", s.Type)
	}
	return nil
}

func (s *Shape) hasRectFields() bool    { return s.Width != nil || s.Height != nil }
func (s *Shape) hasEllipseFields() bool { return s.RX != nil || s.RY != nil }
func (s *Shape) hasLineFields() bool    { return s.X2 != nil || s.Y2 != nil }
func (s *Shape) hasPencilFields() bool  { return len(s.Points) > 0 }
func (s *Shape) hasTextFields() bool {
	return s.Content != nil || s.FontSize != nil || s.FontFamily != nil
}

// Translate moves the shape's defining fields by (dx, dy). Lines translate
// both endpoints together, preserving length and direction; pencil strokes
// translate every point.
func (s *Shape) Translate(dx, dy float64) {
	switch s.Type {
	case ShapeLine:
		s.X += dx
		s.Y += dy
		if s.X2 != nil {
			*s.X2 += dx
		}
		if s.Y2 != nil {
			*s.Y2 += dy
		}
	case ShapePencil:
		for i := range s.Points {
			s.Points[i].X += dx
			s.Points[i].Y += dy
		}
	default:
		s.X += dx
		s.Y += dy
	}
}

// Origin returns the shape's reference point used when recording drag
// offsets: rect top-left, ellipse center, line first endpoint, pencil first
// point, text anchor.
func (s *Shape) Origin() Point {
	if s.Type == ShapePencil && len(s.Points) > 0 {
		return s.Points[0]
	}
	return Point{X: s.X, Y: s.Y}
}

// Equal reports whether two shapes have the same tag and field values within
// a floating point tolerance.
func (s *Shape) Equal(other *Shape) bool {
	const eps = 1e-9
	if other == nil || s.Type != other.Type {
		return false
	}
	feq := func(a, b float64) bool { return math.Abs(a-b) <= eps }
	peq := func(a, b *float64) bool {
		if (a == nil) != (b == nil) {
			return false
		}
		return a == nil || feq(*a, *b)
	}
	if !feq(s.X, other.X) || !feq(s.Y, other.Y) {
		return false
	}
	if !peq(s.Width, other.Width) || !peq(s.Height, other.Height) ||
		!peq(s.RX, other.RX) || !peq(s.RY, other.RY) ||
		!peq(s.X2, other.X2) || !peq(s.Y2, other.Y2) ||
		!peq(s.FontSize, other.FontSize) {
		return false
	}
	if (s.Content == nil) != (other.Content == nil) ||
		(s.Content != nil && *s.Content != *other.Content) {
		return false
	}
	if (s.FontFamily == nil) != (other.FontFamily == nil) ||
		(s.FontFamily != nil && *s.FontFamily != *other.FontFamily) {
		return false
	}
	if len(s.Points) != len(other.Points) {
		return false
	}
	for i := range s.Points {
		if !feq(s.Points[i].X, other.Points[i].X) || !feq(s.Points[i].Y, other.Points[i].Y) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so engine-side mutation cannot alias a shape
// shared with the committed list.
func (s *Shape) Clone() Shape {
	out := *s
	cp := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	out.Width, out.Height = cp(s.Width), cp(s.Height)
	out.RX, out.RY = cp(s.RX), cp(s.RY)
	out.X2, out.Y2 = cp(s.X2), cp(s.Y2)
	out.FontSize = cp(s.FontSize)
	if s.Content != nil {
		v := *s.Content
		out.Content = &v
	}
	if s.FontFamily != nil {
		v := *s.FontFamily
		out.FontFamily = &v
	}
	if s.Points != nil {
		out.Points = make([]Point, len(s.Points))
		copy(out.Points, s.Points)
	}
	return out
}

// ParseShape unmarshals and validates a shape from JSON.
func ParseShape(data []byte) (Shape, error) {
	var s Shape
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to unmarshal shape: %w", err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}
