package canvas

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/alpranjal28/mspaint-sub000/internal/domain"
)

// Tool selects the engine's pointer behavior.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRect
	ToolEllipse
	ToolPencil
	ToolLine
	ToolEraser
	ToolHand
	ToolText
)

// pendingTimeout is how long an optimistically drawn shape may wait for its
// broadcast echo before it is rolled back.
const pendingTimeout = 5 * time.Second

// Item is one shape on the board, identified by its payload id.
type Item struct {
	ID    string
	Shape domain.Shape
	Color string
}

type pendingItem struct {
	item     Item
	deadline time.Time
}

type historyEntry struct {
	forward domain.Payload
	inverse domain.Payload
}

// Engine is the client-side drawing state machine. It owns the local shape
// list, the in-flight pending ledger and the undo history, and emits every
// committed mutation as a Payload through the emit callback. All methods run
// on the caller's single event loop.
type Engine struct {
	camera *Camera
	emit   func(domain.Payload)
	now    func() time.Time

	tool  Tool
	color string

	items   []Item
	pending []pendingItem

	selectedID string

	drawing        bool
	startX, startY float64
	draft          *domain.Shape
	points         []domain.Point

	dragging           bool
	dragID             string
	dragLastX          float64
	dragLastY          float64
	dragOriginal       domain.Shape
	panning            bool
	panLastX, panLastY float64

	textArmed    bool
	textX, textY float64

	undoStack []historyEntry
	redoStack []historyEntry
}

func NewEngine(camera *Camera, emit func(domain.Payload)) *Engine {
	if camera == nil {
		camera = NewCamera()
	}
	if emit == nil {
		emit = func(domain.Payload) {}
	}
	return &Engine{
		camera: camera,
		emit:   emit,
		now:    time.Now,
		tool:   ToolSelect,
		color:  defaultStrokeColor,
	}
}

func (e *Engine) Camera() *Camera { return e.camera }

// SetTool switches tools, cancelling any gesture in progress.
func (e *Engine) SetTool(t Tool) {
	e.tool = t
	e.drawing = false
	e.dragging = false
	e.panning = false
	e.textArmed = false
	e.draft = nil
	e.points = nil
}

func (e *Engine) Tool() Tool { return e.tool }

func (e *Engine) SetColor(color string) { e.color = color }

// SelectedID returns the id of the currently selected shape, or "".
func (e *Engine) SelectedID() string { return e.selectedID }

// Items returns a snapshot of the committed shape list in insertion order.
func (e *Engine) Items() []Item {
	out := make([]Item, len(e.items))
	copy(out, e.items)
	return out
}

// PendingIDs returns the ids still awaiting their broadcast echo.
func (e *Engine) PendingIDs() []string {
	ids := make([]string, 0, len(e.pending))
	for _, p := range e.pending {
		ids = append(ids, p.item.ID)
	}
	return ids
}

// Active reports whether a gesture is in progress, so the render loop knows
// to keep re-scheduling itself.
func (e *Engine) Active() bool {
	return e.drawing || e.dragging || e.panning
}

// LoadHistory replays an ordered payload sequence into the committed list.
// It is meant to run once, before the board becomes interactive.
func (e *Engine) LoadHistory(payloads []domain.Payload) {
	for i := range payloads {
		e.applyRemote(payloads[i])
	}
}

// FindShapeAt hit-tests the board topmost-first at a world point: pending
// shapes are newest, then committed shapes in reverse insertion order.
func (e *Engine) FindShapeAt(wx, wy float64) (Item, bool) {
	for i := len(e.pending) - 1; i >= 0; i-- {
		if hitShape(&e.pending[i].item.Shape, wx, wy) {
			return e.pending[i].item, true
		}
	}
	for i := len(e.items) - 1; i >= 0; i-- {
		if hitShape(&e.items[i].Shape, wx, wy) {
			return e.items[i], true
		}
	}
	return Item{}, false
}

// PointerDown begins a gesture at a screen point.
func (e *Engine) PointerDown(px, py float64) {
	if e.tool == ToolHand {
		e.panning = true
		e.panLastX, e.panLastY = px, py
		return
	}

	wx, wy := e.camera.ScreenToWorld(px, py)
	switch e.tool {
	case ToolSelect:
		item, ok := e.FindShapeAt(wx, wy)
		if !ok {
			e.selectedID = ""
			return
		}
		e.selectedID = item.ID
		e.dragging = true
		e.dragID = item.ID
		e.dragLastX, e.dragLastY = wx, wy
		e.dragOriginal = item.Shape.Clone()
	case ToolEraser:
		item, ok := e.FindShapeAt(wx, wy)
		if !ok {
			return
		}
		e.eraseItem(item)
	case ToolText:
		e.textArmed = true
		e.textX, e.textY = wx, wy
	case ToolPencil:
		e.drawing = true
		e.startX, e.startY = wx, wy
		e.points = []domain.Point{{X: wx, Y: wy}}
		draft := domain.NewPencil(e.points)
		e.draft = &draft
	default:
		e.drawing = true
		e.startX, e.startY = wx, wy
		e.draft = nil
	}
}

// PointerMove advances the active gesture.
func (e *Engine) PointerMove(px, py float64) {
	if e.panning {
		e.camera.PanBy(px-e.panLastX, py-e.panLastY)
		e.panLastX, e.panLastY = px, py
		return
	}

	wx, wy := e.camera.ScreenToWorld(px, py)
	switch {
	case e.dragging:
		dx, dy := wx-e.dragLastX, wy-e.dragLastY
		e.dragLastX, e.dragLastY = wx, wy
		if item := e.findItem(e.dragID); item != nil {
			item.Shape.Translate(dx, dy)
		}
	case e.drawing:
		e.updateDraft(wx, wy)
	}
}

// PointerUp ends the gesture, committing and emitting its result.
func (e *Engine) PointerUp(px, py float64) {
	if e.panning {
		e.panning = false
		return
	}

	wx, wy := e.camera.ScreenToWorld(px, py)
	switch {
	case e.dragging:
		e.dragging = false
		item := e.findItem(e.dragID)
		if item == nil || item.Shape.Equal(&e.dragOriginal) {
			return
		}
		moved := item.Shape.Clone()
		forward := e.payloadFor(item.ID, domain.FuncMove, &moved, item.Color)
		original := e.dragOriginal.Clone()
		inverse := e.payloadFor(item.ID, domain.FuncMove, &original, item.Color)
		e.record(forward, inverse)
		e.emit(forward)
	case e.drawing:
		e.drawing = false
		shape, ok := e.finalizeShape(wx, wy)
		e.draft = nil
		e.points = nil
		if !ok {
			return
		}
		e.commitDraw(shape)
	}
}

// CommitText finalizes a text placement armed by a pointer-down with the
// Text tool.
func (e *Engine) CommitText(content string) {
	if !e.textArmed || content == "" {
		e.textArmed = false
		return
	}
	e.textArmed = false
	shape := domain.NewText(e.textX, e.textY, content, defaultFontSize, defaultFontFamily)
	e.commitDraw(shape)
}

// ApplyBroadcast feeds a broadcast payload back into the board. The echo of
// a locally emitted draw promotes its pending entry; everything else is a
// remote mutation applied directly.
func (e *Engine) ApplyBroadcast(p domain.Payload) {
	for i := range e.pending {
		if e.pending[i].item.ID == p.ID {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			break
		}
	}
	e.applyRemote(p)
}

// ExpirePending rolls back optimistic shapes whose echo never arrived.
// It returns the rolled-back ids.
func (e *Engine) ExpirePending(now time.Time) []string {
	var expired []string
	kept := e.pending[:0]
	for _, p := range e.pending {
		if now.After(p.deadline) {
			expired = append(expired, p.item.ID)
			continue
		}
		kept = append(kept, p)
	}
	e.pending = kept
	return expired
}

// Undo reverses the last committed action locally and re-broadcasts its
// inverse so peers converge on the same board.
func (e *Engine) Undo() {
	if len(e.undoStack) == 0 {
		return
	}
	entry := e.undoStack[len(e.undoStack)-1]
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.redoStack = append(e.redoStack, entry)
	e.applyRemote(entry.inverse)
	e.emit(entry.inverse)
}

// Redo re-applies the last undone action and re-broadcasts it.
func (e *Engine) Redo() {
	if len(e.redoStack) == 0 {
		return
	}
	entry := e.redoStack[len(e.redoStack)-1]
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.undoStack = append(e.undoStack, entry)
	e.applyRemote(entry.forward)
	e.emit(entry.forward)
}

// Render repaints the full board: committed shapes first, pending shapes in
// a muted stroke, then the in-progress draft.
func (e *Engine) Render(r Renderer) {
	r.Clear()
	r.SetTransform(e.camera.Current.Scale, e.camera.Current.X, e.camera.Current.Y)
	for i := range e.items {
		color := e.items[i].Color
		if e.items[i].ID == e.selectedID {
			color = selectedStrokeColor
		}
		strokeShape(r, &e.items[i].Shape, color)
	}
	for i := range e.pending {
		strokeShape(r, &e.pending[i].item.Shape, pendingStrokeColor)
	}
	if e.draft != nil {
		strokeShape(r, e.draft, e.color)
	}
}

func (e *Engine) updateDraft(wx, wy float64) {
	switch e.tool {
	case ToolRect:
		draft := domain.NewRect(e.startX, e.startY, wx-e.startX, wy-e.startY)
		e.draft = &draft
	case ToolEllipse:
		cx, cy := (e.startX+wx)/2, (e.startY+wy)/2
		r := math.Hypot(wx-e.startX, wy-e.startY) / 2
		draft := domain.NewEllipse(cx, cy, r, r)
		e.draft = &draft
	case ToolLine:
		draft := domain.NewLine(e.startX, e.startY, wx, wy)
		e.draft = &draft
	case ToolPencil:
		e.points = append(e.points, domain.Point{X: wx, Y: wy})
		draft := domain.NewPencil(e.points)
		e.draft = &draft
	}
}

// finalizeShape builds the committed shape from the gesture's start and end
// world coordinates. Degenerate gestures produce no shape.
func (e *Engine) finalizeShape(wx, wy float64) (domain.Shape, bool) {
	switch e.tool {
	case ToolRect:
		if wx == e.startX && wy == e.startY {
			return domain.Shape{}, false
		}
		return domain.NewRect(e.startX, e.startY, wx-e.startX, wy-e.startY), true
	case ToolEllipse:
		r := math.Hypot(wx-e.startX, wy-e.startY) / 2
		if r == 0 {
			return domain.Shape{}, false
		}
		return domain.NewEllipse((e.startX+wx)/2, (e.startY+wy)/2, r, r), true
	case ToolLine:
		if wx == e.startX && wy == e.startY {
			return domain.Shape{}, false
		}
		return domain.NewLine(e.startX, e.startY, wx, wy), true
	case ToolPencil:
		if len(e.points) < 2 {
			return domain.Shape{}, false
		}
		return domain.NewPencil(e.points), true
	}
	return domain.Shape{}, false
}

// commitDraw appends the shape optimistically, emits its draw payload and
// records the inverse erase for undo.
func (e *Engine) commitDraw(shape domain.Shape) {
	id := uuid.NewString()
	item := Item{ID: id, Shape: shape, Color: e.color}
	e.pending = append(e.pending, pendingItem{
		item:     item,
		deadline: e.now().Add(pendingTimeout),
	})
	forward := e.payloadFor(id, domain.FuncDraw, &item.Shape, item.Color)
	inverse := e.payloadFor(id, domain.FuncErase, nil, item.Color)
	e.record(forward, inverse)
	e.emit(forward)
}

func (e *Engine) eraseItem(item Item) {
	e.removeItem(item.ID)
	original := item.Shape.Clone()
	forward := e.payloadFor(item.ID, domain.FuncErase, nil, item.Color)
	inverse := e.payloadFor(item.ID, domain.FuncDraw, &original, item.Color)
	e.record(forward, inverse)
	e.emit(forward)
	if e.selectedID == item.ID {
		e.selectedID = ""
	}
}

// applyRemote applies a payload to the committed list. Draw is an upsert so
// the echo of a local mutation is idempotent.
func (e *Engine) applyRemote(p domain.Payload) {
	switch p.Function {
	case domain.FuncDraw:
		if p.Shape == nil {
			return
		}
		if item := e.findItem(p.ID); item != nil {
			item.Shape = p.Shape.Clone()
			return
		}
		e.items = append(e.items, Item{ID: p.ID, Shape: p.Shape.Clone(), Color: p.Color})
	case domain.FuncMove:
		if p.Shape == nil {
			return
		}
		if item := e.findItem(p.ID); item != nil {
			item.Shape = p.Shape.Clone()
		}
	case domain.FuncErase:
		e.removeItem(p.ID)
		if e.selectedID == p.ID {
			e.selectedID = ""
		}
	}
}

func (e *Engine) findItem(id string) *Item {
	for i := range e.items {
		if e.items[i].ID == id {
			return &e.items[i]
		}
	}
	return nil
}

func (e *Engine) removeItem(id string) {
	for i := range e.items {
		if e.items[i].ID == id {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return
		}
	}
}

func (e *Engine) payloadFor(id string, fn domain.PayloadFunc, shape *domain.Shape, color string) domain.Payload {
	return domain.Payload{
		ID:        id,
		Function:  fn,
		Shape:     shape,
		Color:     color,
		Timestamp: e.now().UnixMilli(),
	}
}

// record pushes an undo entry and clears the redo branch.
func (e *Engine) record(forward, inverse domain.Payload) {
	e.undoStack = append(e.undoStack, historyEntry{forward: forward, inverse: inverse})
	e.redoStack = e.redoStack[:0]
}
