package domain

// DropSide says where a dragged item lands relative to its target
type DropSide int

const (
	DropBefore DropSide = iota
	DropAfter
)

// DropPosition decides the side from the pointer position over a target that
// spans [targetLeft, targetLeft+targetWidth). Left of the midpoint is before.
func DropPosition(pointerX, targetLeft, targetWidth int) DropSide {
	// compare doubled values so odd widths split exactly at the midpoint
	if 2*(pointerX-targetLeft) < targetWidth {
		return DropBefore
	}
	return DropAfter
}

// DragOrder returns the order that results from dropping order[from] on
// order[to] at side. The input is not modified. Out-of-range indexes, or a
// drop onto itself, return an unchanged copy.
func DragOrder(order []string, from, to int, side DropSide) []string {
	out := append([]string(nil), order...)
	if from < 0 || from >= len(order) || to < 0 || to >= len(order) || from == to {
		return out
	}

	moved := out[from]
	rest := append(append([]string(nil), out[:from]...), out[from+1:]...)

	// target index shifts left by one once the dragged item is lifted out
	target := to
	if from < to {
		target--
	}
	insertAt := target
	if side == DropAfter {
		insertAt++
	}

	result := make([]string, 0, len(order))
	result = append(result, rest[:insertAt]...)
	result = append(result, moved)
	result = append(result, rest[insertAt:]...)
	return result
}

// DragSession tracks one drag gesture over an ordered list. Intermediate hover
// positions only change Preview; the caller commits Preview on release.
type DragSession struct {
	base    []string
	from    int
	preview []string
	active  bool
}

// StartDrag begins dragging order[from]
func StartDrag(order []string, from int) *DragSession {
	if from < 0 || from >= len(order) {
		return &DragSession{}
	}
	return &DragSession{
		base:    append([]string(nil), order...),
		from:    from,
		preview: append([]string(nil), order...),
		active:  true,
	}
}

// Active reports whether a drag is in progress
func (d *DragSession) Active() bool {
	return d != nil && d.active
}

// Dragged returns the value being dragged
func (d *DragSession) Dragged() string {
	if !d.Active() {
		return ""
	}
	return d.base[d.from]
}

// Hover recomputes the preview for the pointer sitting over base[to]
func (d *DragSession) Hover(to int, side DropSide) {
	if !d.Active() {
		return
	}
	d.preview = DragOrder(d.base, d.from, to, side)
}

// Step moves the dragged value one slot left (delta<0) or right (delta>0) in
// the preview. Used by keyboard grab mode.
func (d *DragSession) Step(delta int) {
	if !d.Active() {
		return
	}
	cur := d.position()
	next := cur + delta
	if next < 0 || next >= len(d.preview) {
		return
	}
	side := DropAfter
	if delta < 0 {
		side = DropBefore
	}
	d.preview = DragOrder(d.preview, cur, next, side)
}

// Preview returns the order currently shown to the user
func (d *DragSession) Preview() []string {
	if !d.Active() {
		return nil
	}
	return append([]string(nil), d.preview...)
}

// Position returns the current preview index of the dragged value
func (d *DragSession) Position() int {
	if !d.Active() {
		return -1
	}
	return d.position()
}

func (d *DragSession) position() int {
	dragged := d.base[d.from]
	for i, v := range d.preview {
		if v == dragged {
			return i
		}
	}
	return d.from
}

// End finishes the gesture and returns the final order to commit
func (d *DragSession) End() []string {
	if !d.Active() {
		return nil
	}
	d.active = false
	return append([]string(nil), d.preview...)
}
