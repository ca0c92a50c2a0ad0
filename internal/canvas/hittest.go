package canvas

import (
	"math"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// lineHitTolerance is the world-space distance within which a point counts
// as touching a line or pencil segment.
const lineHitTolerance = 5.0

// hitShape reports whether the world point (x, y) touches the shape, using
// per-variant geometry.
func hitShape(s *domain.Shape, x, y float64) bool {
	switch s.Type {
	case domain.ShapeRect:
		return hitRect(s, x, y)
	case domain.ShapeEllipse:
		return hitEllipse(s, x, y)
	case domain.ShapeLine:
		return hitLine(s, x, y)
	case domain.ShapePencil:
		return hitPencil(s, x, y)
	case domain.ShapeText:
		return hitText(s, x, y)
	default:
		return false
	}
}

// hitRect is an axis-aligned bounds test, normalized so rects drawn with
// negative width or height still hit.
func hitRect(s *domain.Shape, x, y float64) bool {
	if s.Width == nil || s.Height == nil {
		return false
	}
	x0, x1 := s.X, s.X+*s.Width
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := s.Y, s.Y+*s.Height
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return x >= x0 && x <= x1 && y >= y0 && y <= y1
}

// hitEllipse treats the ellipse as a circle and compares squared distance
// from the center against the squared radius.
func hitEllipse(s *domain.Shape, x, y float64) bool {
	if s.RX == nil {
		return false
	}
	r := *s.RX
	dx, dy := x-s.X, y-s.Y
	return dx*dx+dy*dy <= r*r
}

func hitLine(s *domain.Shape, x, y float64) bool {
	if s.X2 == nil || s.Y2 == nil {
		return false
	}
	return pointSegmentDistance(x, y, s.X, s.Y, *s.X2, *s.Y2) <= lineHitTolerance
}

func hitPencil(s *domain.Shape, x, y float64) bool {
	for i := 1; i < len(s.Points); i++ {
		a, b := s.Points[i-1], s.Points[i]
		if pointSegmentDistance(x, y, a.X, a.Y, b.X, b.Y) <= lineHitTolerance {
			return true
		}
	}
	return false
}

// hitText approximates the glyph box from the font size and content length.
func hitText(s *domain.Shape, x, y float64) bool {
	if s.Content == nil || s.FontSize == nil {
		return false
	}
	size := *s.FontSize
	width := size * 0.6 * float64(len(*s.Content))
	return x >= s.X && x <= s.X+width && y >= s.Y-size && y <= s.Y
}

// pointSegmentDistance returns the distance from (px, py) to the closest
// point on the segment (x1, y1)-(x2, y2).
func pointSegmentDistance(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = clamp(((px-x1)*dx+(py-y1)*dy)/lenSq, 0, 1)
	}
	cx, cy := x1+t*dx, y1+t*dy
	return math.Hypot(px-cx, py-cy)
}
