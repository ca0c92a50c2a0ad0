package canvas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// newTestEngine returns an engine with an identity camera and a capture
// slice for emitted payloads.
func newTestEngine() (*Engine, *[]domain.Payload) {
	emitted := &[]domain.Payload{}
	e := NewEngine(NewCamera(), func(p domain.Payload) {
		*emitted = append(*emitted, p)
	})
	return e, emitted
}

func TestEngine_RectGestureEmitsDrawAndPends(t *testing.T) {
	e, emitted := newTestEngine()
	e.SetTool(ToolRect)

	e.PointerDown(10, 10)
	e.PointerMove(35, 25)
	e.PointerUp(60, 40)

	require.Len(t, *emitted, 1)
	p := (*emitted)[0]
	assert.Equal(t, domain.FuncDraw, p.Function)
	require.NotNil(t, p.Shape)
	assert.Equal(t, domain.ShapeRect, p.Shape.Type)
	assert.Equal(t, 10.0, p.Shape.X)
	assert.Equal(t, 50.0, *p.Shape.Width)
	assert.Equal(t, 30.0, *p.Shape.Height)
	assert.NotEmpty(t, p.ID)

	assert.Empty(t, e.Items(), "shape is pending until the echo arrives")
	assert.Equal(t, []string{p.ID}, e.PendingIDs())
}

func TestEngine_EllipseFinalizedAsCircleFromDiagonal(t *testing.T) {
	e, emitted := newTestEngine()
	e.SetTool(ToolEllipse)

	e.PointerDown(0, 0)
	e.PointerUp(60, 80)

	require.Len(t, *emitted, 1)
	s := (*emitted)[0].Shape
	require.NotNil(t, s)
	assert.Equal(t, domain.ShapeEllipse, s.Type)
	assert.Equal(t, 30.0, s.X)
	assert.Equal(t, 40.0, s.Y)
	assert.Equal(t, 50.0, *s.RX)
	assert.Equal(t, 50.0, *s.RY)
}

func TestEngine_PencilGestureCollectsPoints(t *testing.T) {
	e, emitted := newTestEngine()
	e.SetTool(ToolPencil)

	e.PointerDown(0, 0)
	e.PointerMove(5, 5)
	e.PointerMove(10, 0)
	e.PointerUp(10, 0)

	require.Len(t, *emitted, 1)
	s := (*emitted)[0].Shape
	require.NotNil(t, s)
	assert.Equal(t, domain.ShapePencil, s.Type)
	assert.Len(t, s.Points, 3)
}

func TestEngine_DegenerateGestureEmitsNothing(t *testing.T) {
	e, emitted := newTestEngine()
	e.SetTool(ToolRect)

	e.PointerDown(10, 10)
	e.PointerUp(10, 10)

	assert.Empty(t, *emitted)
	assert.Empty(t, e.PendingIDs())
}

func TestEngine_EchoPromotesPendingShape(t *testing.T) {
	e, emitted := newTestEngine()
	e.SetTool(ToolRect)
	e.PointerDown(10, 10)
	e.PointerUp(60, 40)
	require.Len(t, *emitted, 1)

	e.ApplyBroadcast((*emitted)[0])

	assert.Empty(t, e.PendingIDs())
	require.Len(t, e.Items(), 1)
	assert.Equal(t, (*emitted)[0].ID, e.Items()[0].ID)
}

func TestEngine_ExpirePendingRollsBack(t *testing.T) {
	e, emitted := newTestEngine()
	base := time.Now()
	e.now = func() time.Time { return base }

	e.SetTool(ToolRect)
	e.PointerDown(10, 10)
	e.PointerUp(60, 40)
	require.Len(t, *emitted, 1)

	expired := e.ExpirePending(base.Add(pendingTimeout + time.Second))

	assert.Equal(t, []string{(*emitted)[0].ID}, expired)
	assert.Empty(t, e.PendingIDs())
	assert.Empty(t, e.Items())
}

func TestEngine_ExpirePendingKeepsFreshShapes(t *testing.T) {
	e, _ := newTestEngine()
	base := time.Now()
	e.now = func() time.Time { return base }

	e.SetTool(ToolRect)
	e.PointerDown(10, 10)
	e.PointerUp(60, 40)

	assert.Empty(t, e.ExpirePending(base.Add(time.Second)))
	assert.Len(t, e.PendingIDs(), 1)
}

func seedRect(e *Engine, id string) {
	shape := domain.NewRect(10, 10, 50, 30)
	e.ApplyBroadcast(domain.Payload{ID: id, Function: domain.FuncDraw, Shape: &shape, Timestamp: 1})
}

func TestEngine_SelectAndDragEmitsMove(t *testing.T) {
	e, emitted := newTestEngine()
	seedRect(e, "r1")
	e.SetTool(ToolSelect)

	e.PointerDown(30, 20)
	assert.Equal(t, "r1", e.SelectedID())
	e.PointerMove(40, 30)
	e.PointerUp(40, 30)

	require.Len(t, *emitted, 1)
	p := (*emitted)[0]
	assert.Equal(t, domain.FuncMove, p.Function)
	assert.Equal(t, "r1", p.ID)
	require.NotNil(t, p.Shape)
	assert.Equal(t, 20.0, p.Shape.X)
	assert.Equal(t, 20.0, p.Shape.Y)
	assert.Equal(t, 50.0, *p.Shape.Width)

	assert.Equal(t, 20.0, e.Items()[0].Shape.X)
}

func TestEngine_SelectMissClearsSelection(t *testing.T) {
	e, emitted := newTestEngine()
	seedRect(e, "r1")
	e.SetTool(ToolSelect)
	e.PointerDown(30, 20)
	e.PointerUp(30, 20)

	e.PointerDown(500, 500)

	assert.Equal(t, "", e.SelectedID())
	assert.Empty(t, *emitted, "a drag that never moved emits nothing")
}

func TestEngine_TopmostShapeWinsHitTest(t *testing.T) {
	e, _ := newTestEngine()
	seedRect(e, "below")
	seedRect(e, "above")

	item, ok := e.FindShapeAt(30, 20)

	require.True(t, ok)
	assert.Equal(t, "above", item.ID)
}

func TestEngine_EraserEmitsEraseWithoutShape(t *testing.T) {
	e, emitted := newTestEngine()
	seedRect(e, "r1")
	e.SetTool(ToolEraser)

	e.PointerDown(30, 20)

	require.Len(t, *emitted, 1)
	p := (*emitted)[0]
	assert.Equal(t, domain.FuncErase, p.Function)
	assert.Equal(t, "r1", p.ID)
	assert.Nil(t, p.Shape)
	assert.Empty(t, e.Items())
}

func TestEngine_TextCommit(t *testing.T) {
	e, emitted := newTestEngine()
	e.SetTool(ToolText)

	e.PointerDown(15, 25)
	e.CommitText("hello")

	require.Len(t, *emitted, 1)
	s := (*emitted)[0].Shape
	require.NotNil(t, s)
	assert.Equal(t, domain.ShapeText, s.Type)
	assert.Equal(t, 15.0, s.X)
	assert.Equal(t, "hello", *s.Content)

	e.CommitText("orphan")
	assert.Len(t, *emitted, 1, "text without an armed position is dropped")
}

func TestEngine_HandToolPansCameraTarget(t *testing.T) {
	e, emitted := newTestEngine()
	e.SetTool(ToolHand)

	e.PointerDown(0, 0)
	e.PointerMove(10, 5)
	e.PointerMove(15, 5)
	e.PointerUp(15, 5)

	assert.Equal(t, 15.0, e.Camera().Target.X)
	assert.Equal(t, 5.0, e.Camera().Target.Y)
	assert.Empty(t, *emitted)
}

func TestEngine_UndoDrawEmitsInverseErase(t *testing.T) {
	e, emitted := newTestEngine()
	e.SetTool(ToolRect)
	e.PointerDown(10, 10)
	e.PointerUp(60, 40)
	require.Len(t, *emitted, 1)
	drawn := (*emitted)[0]
	e.ApplyBroadcast(drawn)

	e.Undo()

	require.Len(t, *emitted, 2)
	assert.Equal(t, domain.FuncErase, (*emitted)[1].Function)
	assert.Equal(t, drawn.ID, (*emitted)[1].ID)
	assert.Empty(t, e.Items())

	e.Redo()

	require.Len(t, *emitted, 3)
	assert.Equal(t, domain.FuncDraw, (*emitted)[2].Function)
	require.Len(t, e.Items(), 1)
}

func TestEngine_UndoMoveRestoresOriginalPosition(t *testing.T) {
	e, emitted := newTestEngine()
	seedRect(e, "r1")
	e.SetTool(ToolSelect)
	e.PointerDown(30, 20)
	e.PointerMove(40, 30)
	e.PointerUp(40, 30)
	require.Len(t, *emitted, 1)

	e.Undo()

	require.Len(t, *emitted, 2)
	inverse := (*emitted)[1]
	assert.Equal(t, domain.FuncMove, inverse.Function)
	assert.Equal(t, 10.0, inverse.Shape.X)
	assert.Equal(t, 10.0, e.Items()[0].Shape.X)
}

func TestEngine_LoadHistoryReplaysMutationsInOrder(t *testing.T) {
	e, _ := newTestEngine()
	rect := domain.NewRect(10, 10, 50, 30)
	moved := domain.NewRect(100, 100, 50, 30)
	line := domain.NewLine(0, 0, 5, 5)

	e.LoadHistory([]domain.Payload{
		{ID: "a", Function: domain.FuncDraw, Shape: &rect, Timestamp: 1},
		{ID: "b", Function: domain.FuncDraw, Shape: &line, Timestamp: 2},
		{ID: "a", Function: domain.FuncMove, Shape: &moved, Timestamp: 3},
		{ID: "b", Function: domain.FuncErase, Timestamp: 4},
	})

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 100.0, items[0].Shape.X)
}

func TestEngine_RemoteEraseClearsSelection(t *testing.T) {
	e, _ := newTestEngine()
	seedRect(e, "r1")
	e.SetTool(ToolSelect)
	e.PointerDown(30, 20)
	e.PointerUp(30, 20)
	require.Equal(t, "r1", e.SelectedID())

	e.ApplyBroadcast(domain.Payload{ID: "r1", Function: domain.FuncErase, Timestamp: 9})

	assert.Equal(t, "", e.SelectedID())
}

type renderOp struct {
	kind  string
	color string
}

type fakeRenderer struct {
	cleared    int
	transforms []Transform
	ops        []renderOp
}

func (f *fakeRenderer) Clear() { f.cleared++ }
func (f *fakeRenderer) SetTransform(scale, x, y float64) {
	f.transforms = append(f.transforms, Transform{Scale: scale, X: x, Y: y})
}
func (f *fakeRenderer) StrokeRect(x, y, w, h float64, color string) {
	f.ops = append(f.ops, renderOp{kind: "rect", color: color})
}
func (f *fakeRenderer) StrokeEllipse(cx, cy, rx, ry float64, color string) {
	f.ops = append(f.ops, renderOp{kind: "ellipse", color: color})
}
func (f *fakeRenderer) StrokeLine(x1, y1, x2, y2 float64, color string) {
	f.ops = append(f.ops, renderOp{kind: "line", color: color})
}
func (f *fakeRenderer) StrokePath(points []domain.Point, color string) {
	f.ops = append(f.ops, renderOp{kind: "path", color: color})
}
func (f *fakeRenderer) FillText(x, y float64, content string, fontSize float64, fontFamily, color string) {
	f.ops = append(f.ops, renderOp{kind: "text", color: color})
}

func TestEngine_RenderPaintsAllLayers(t *testing.T) {
	e, _ := newTestEngine()
	seedRect(e, "r1")
	line := domain.NewLine(0, 0, 5, 5)
	e.ApplyBroadcast(domain.Payload{ID: "l1", Function: domain.FuncDraw, Shape: &line, Timestamp: 2})

	e.SetTool(ToolSelect)
	e.PointerDown(30, 20)
	e.PointerUp(30, 20)

	e.SetTool(ToolRect)
	e.PointerDown(200, 200)
	e.PointerUp(260, 240) // one pending rect
	e.PointerDown(300, 300)
	e.PointerMove(310, 310) // active draft

	r := &fakeRenderer{}
	e.Render(r)

	assert.Equal(t, 1, r.cleared)
	require.Len(t, r.transforms, 1)
	assert.Equal(t, e.Camera().Current, r.transforms[0])

	require.Len(t, r.ops, 4)
	assert.Equal(t, renderOp{kind: "rect", color: selectedStrokeColor}, r.ops[0])
	assert.Equal(t, "line", r.ops[1].kind)
	assert.Equal(t, renderOp{kind: "rect", color: pendingStrokeColor}, r.ops[2])
	assert.Equal(t, "rect", r.ops[3].kind)
}
