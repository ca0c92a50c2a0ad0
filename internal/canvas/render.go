package canvas

import "github.com/alpranjal28/mspaint-sub000/internal/domain"

// Renderer is the drawing surface the engine paints onto each frame. The
// engine issues world-space coordinates; SetTransform establishes the camera
// pose the surface applies to them.
type Renderer interface {
	Clear()
	SetTransform(scale, x, y float64)
	StrokeRect(x, y, width, height float64, color string)
	StrokeEllipse(cx, cy, rx, ry float64, color string)
	StrokeLine(x1, y1, x2, y2 float64, color string)
	StrokePath(points []domain.Point, color string)
	FillText(x, y float64, content string, fontSize float64, fontFamily, color string)
}

const (
	defaultStrokeColor  = "#ffffff"
	selectedStrokeColor = "#4f9cff"
	pendingStrokeColor  = "#9a9a9a"
	defaultFontSize     = 16.0
	defaultFontFamily   = "sans-serif"
)

func strokeShape(r Renderer, s *domain.Shape, color string) {
	switch s.Type {
	case domain.ShapeRect:
		if s.Width != nil && s.Height != nil {
			r.StrokeRect(s.X, s.Y, *s.Width, *s.Height, color)
		}
	case domain.ShapeEllipse:
		if s.RX != nil && s.RY != nil {
			r.StrokeEllipse(s.X, s.Y, *s.RX, *s.RY, color)
		}
	case domain.ShapeLine:
		if s.X2 != nil && s.Y2 != nil {
			r.StrokeLine(s.X, s.Y, *s.X2, *s.Y2, color)
		}
	case domain.ShapePencil:
		if len(s.Points) > 1 {
			r.StrokePath(s.Points, color)
		}
	case domain.ShapeText:
		if s.Content != nil {
			size := defaultFontSize
			if s.FontSize != nil {
				size = *s.FontSize
			}
			family := defaultFontFamily
			if s.FontFamily != nil {
				family = *s.FontFamily
			}
			r.FillText(s.X, s.Y, *s.Content, size, family, color)
		}
	}
}
