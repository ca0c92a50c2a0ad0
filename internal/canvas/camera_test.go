package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stepUntilConverged(t *testing.T, c *Camera) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if c.Step() {
			return
		}
	}
	t.Fatal("camera did not converge")
}

func TestCamera_ZoomKeepsPointerAnchored(t *testing.T) {
	c := NewCamera()
	px, py := 320.0, 240.0

	wxBefore, wyBefore := c.ScreenToWorld(px, py)
	c.ZoomAt(px, py, 2)
	stepUntilConverged(t, c)
	wxAfter, wyAfter := c.ScreenToWorld(px, py)

	assert.InDelta(t, wxBefore, wxAfter, 1e-6)
	assert.InDelta(t, wyBefore, wyAfter, 1e-6)
	assert.InDelta(t, 2.0, c.Current.Scale, 1e-9)
}

func TestCamera_ZoomAnchorHoldsAcrossRepeatedZooms(t *testing.T) {
	c := NewCamera()
	c.PanBy(100, -50)
	stepUntilConverged(t, c)
	px, py := 50.0, 75.0

	wx, wy := c.ScreenToWorld(px, py)
	c.ZoomAt(px, py, 1.5)
	c.ZoomAt(px, py, 1.5)
	stepUntilConverged(t, c)
	wxAfter, wyAfter := c.ScreenToWorld(px, py)

	assert.InDelta(t, wx, wxAfter, 1e-6)
	assert.InDelta(t, wy, wyAfter, 1e-6)
}

func TestCamera_ScaleClamped(t *testing.T) {
	c := NewCamera()

	c.ZoomAt(0, 0, 100)
	assert.Equal(t, MaxScale, c.Target.Scale)

	c.ZoomAt(0, 0, 0.0001)
	assert.Equal(t, MinScale, c.Target.Scale)
}

func TestCamera_ZoomAtClampBoundaryIsNoOp(t *testing.T) {
	c := NewCamera()
	c.ZoomAt(10, 10, 100)
	x, y := c.Target.X, c.Target.Y

	// Already at max scale: the offset must not drift.
	c.ZoomAt(10, 10, 2)

	assert.Equal(t, x, c.Target.X)
	assert.Equal(t, y, c.Target.Y)
}

func TestCamera_StepConvergesAndSnaps(t *testing.T) {
	c := NewCamera()
	c.PanBy(10, 10)

	converged := false
	for i := 0; i < 1000 && !converged; i++ {
		converged = c.Step()
	}

	assert.True(t, converged)
	assert.Equal(t, c.Target, c.Current)
	assert.True(t, c.Step(), "a converged camera stays converged")
}

func TestCamera_WorldScreenRoundTrip(t *testing.T) {
	c := NewCamera()
	c.ZoomAt(100, 100, 3)
	stepUntilConverged(t, c)

	sx, sy := c.WorldToScreen(42, -17)
	wx, wy := c.ScreenToWorld(sx, sy)

	assert.InDelta(t, 42.0, wx, 1e-9)
	assert.InDelta(t, -17.0, wy, 1e-9)
}
