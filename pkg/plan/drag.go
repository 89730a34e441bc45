package plan

// Drag is the pointer gesture state machine: Idle → Dragging → Idle. It
// remembers where within the element the pointer grabbed it, so a gesture
// moves the element by exactly the pointer delta no matter where the grab
// started. All coordinates are canvas-relative; callers subtract the canvas
// origin before feeding pointer positions in.
type Drag struct {
	elementID string
	offsetX   float64
	offsetY   float64
	moved     bool
}

// Start begins a gesture on an element, recording the pointer offset from
// the element's top-left corner.
func (d *Drag) Start(elementID string, pointerX, pointerY, elemX, elemY float64) {
	d.elementID = elementID
	d.offsetX = pointerX - elemX
	d.offsetY = pointerY - elemY
	d.moved = false
}

// Active reports whether a gesture is in progress.
func (d *Drag) Active() bool {
	return d.elementID != ""
}

// ElementID returns the element being dragged, or "" when idle.
func (d *Drag) ElementID() string {
	return d.elementID
}

// Move translates a pointer position into the dragged element's new
// top-left position. Returns ok=false when no gesture is active.
func (d *Drag) Move(pointerX, pointerY float64) (x, y float64, ok bool) {
	if !d.Active() {
		return 0, 0, false
	}
	d.moved = true
	return pointerX - d.offsetX, pointerY - d.offsetY, true
}

// End finishes the gesture and reports whether any move occurred — the
// caller fires the debounced save only when it did.
func (d *Drag) End() (moved bool) {
	moved = d.moved
	d.elementID = ""
	d.moved = false
	return moved
}
