package canvas

import "math"

const (
	// MinScale and MaxScale bound the zoom range.
	MinScale = 0.1
	MaxScale = 5.0

	// smoothFactor is the exponential smoothing applied each tick.
	smoothFactor = 0.15

	// Convergence thresholds under which Current snaps to Target and the
	// animation loop may stop.
	positionEpsilon = 0.01
	scaleEpsilon    = 0.0001
)

// Transform is one camera pose: a uniform scale and a screen-space offset.
// A world point w maps to screen as w*Scale + offset.
type Transform struct {
	Scale float64
	X     float64
	Y     float64
}

// Camera holds the rendered pose (Current) and the input-driven pose
// (Target). Input mutates Target only; Step eases Current toward it.
type Camera struct {
	Current Transform
	Target  Transform
}

func NewCamera() *Camera {
	t := Transform{Scale: 1}
	return &Camera{Current: t, Target: t}
}

// ZoomAt scales the target pose by factor, anchored at the screen point
// (px, py): the world point under the pointer stays under the pointer.
func (c *Camera) ZoomAt(px, py, factor float64) {
	oldScale := c.Target.Scale
	newScale := clamp(oldScale*factor, MinScale, MaxScale)
	if newScale == oldScale {
		return
	}
	ratio := newScale / oldScale
	c.Target.X = px - (px-c.Target.X)*ratio
	c.Target.Y = py - (py-c.Target.Y)*ratio
	c.Target.Scale = newScale
}

// PanBy shifts the target offset by a screen-space delta.
func (c *Camera) PanBy(dx, dy float64) {
	c.Target.X += dx
	c.Target.Y += dy
}

// Step advances Current one smoothing tick toward Target and reports whether
// the camera has converged. Once within the epsilons, Current snaps exactly
// onto Target so the caller can stop its animation loop.
func (c *Camera) Step() bool {
	c.Current.Scale += (c.Target.Scale - c.Current.Scale) * smoothFactor
	c.Current.X += (c.Target.X - c.Current.X) * smoothFactor
	c.Current.Y += (c.Target.Y - c.Current.Y) * smoothFactor

	if math.Abs(c.Target.Scale-c.Current.Scale) < scaleEpsilon &&
		math.Abs(c.Target.X-c.Current.X) < positionEpsilon &&
		math.Abs(c.Target.Y-c.Current.Y) < positionEpsilon {
		c.Current = c.Target
		return true
	}
	return false
}

// ScreenToWorld converts a screen point through the rendered pose.
func (c *Camera) ScreenToWorld(px, py float64) (float64, float64) {
	return (px - c.Current.X) / c.Current.Scale, (py - c.Current.Y) / c.Current.Scale
}

// WorldToScreen converts a world point through the rendered pose.
func (c *Camera) WorldToScreen(wx, wy float64) (float64, float64) {
	return wx*c.Current.Scale + c.Current.X, wy*c.Current.Scale + c.Current.Y
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
