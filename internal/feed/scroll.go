package feed

import "math"

// Coordinator translates a raw scroll offset into the active item index and
// the virtualization window. Each item occupies exactly one viewport height
// and the container snaps per item, so nearest-item rounding is enough; no
// sub-row tracking is needed.
type Coordinator struct {
	viewportHeight int
	itemCount      int
	offset         float64
	active         int
	bufferBefore   int
	bufferAfter    int
	pending        bool
}

func NewCoordinator(bufferBefore, bufferAfter int) *Coordinator {
	if bufferBefore < 0 {
		bufferBefore = 0
	}
	if bufferAfter < 0 {
		bufferAfter = 0
	}
	return &Coordinator{bufferBefore: bufferBefore, bufferAfter: bufferAfter}
}

// ActiveIndex is the core positioning rule:
// clamp(round(scrollTop/viewportHeight), 0, itemCount-1).
func ActiveIndex(scrollTop float64, viewportHeight, itemCount int) int {
	if itemCount <= 0 {
		return 0
	}
	if viewportHeight <= 0 {
		return 0
	}
	idx := int(math.Round(scrollTop / float64(viewportHeight)))
	if idx < 0 {
		return 0
	}
	if idx > itemCount-1 {
		return itemCount - 1
	}
	return idx
}

// Window derives the render range around the active index. Bounds never
// exceed [0, itemCount-1] and always contain the active index.
func Window(active, itemCount, bufferBefore, bufferAfter int) (start, end int) {
	if itemCount <= 0 {
		return 0, -1
	}
	start = active - bufferBefore
	if start < 0 {
		start = 0
	}
	end = active + bufferAfter
	if end > itemCount-1 {
		end = itemCount - 1
	}
	return start, end
}

func (c *Coordinator) Resize(viewportHeight int) {
	c.viewportHeight = viewportHeight
	c.pending = true
}

func (c *Coordinator) SetItemCount(n int) {
	if n < 0 {
		n = 0
	}
	c.itemCount = n
	c.clampOffset()
	c.pending = true
}

func (c *Coordinator) ViewportHeight() int { return c.viewportHeight }
func (c *Coordinator) ItemCount() int      { return c.itemCount }
func (c *Coordinator) Offset() float64     { return c.offset }
func (c *Coordinator) Active() int         { return c.active }

// AtTop reports whether the container sits at offset zero, the precondition
// for starting a pull-to-refresh gesture.
func (c *Coordinator) AtTop() bool { return c.offset <= 0 }

// ScrollBy accumulates a raw scroll delta in rows. Recomputation of the
// active index is deferred to the next Recompute call so fast flings cost
// one recompute per frame, not one per input event.
func (c *Coordinator) ScrollBy(delta float64) {
	c.offset += delta
	c.clampOffset()
	c.pending = true
}

func (c *Coordinator) ScrollTo(offset float64) {
	c.offset = offset
	c.clampOffset()
	c.pending = true
}

// JumpTo moves directly to an item index, snapping the offset.
func (c *Coordinator) JumpTo(index int) (prev, next int, changed bool) {
	if c.itemCount == 0 {
		return c.active, c.active, false
	}
	if index < 0 {
		index = 0
	}
	if index > c.itemCount-1 {
		index = c.itemCount - 1
	}
	prev = c.active
	c.active = index
	c.offset = float64(index * c.viewportHeight)
	c.pending = false
	return prev, c.active, prev != c.active
}

// Recompute resolves the pending offset into an active index and snaps the
// offset onto it. It reports the deactivated and newly activated indices;
// callers use the transition to stop and start engagement timers.
func (c *Coordinator) Recompute() (prev, next int, changed bool) {
	if !c.pending {
		return c.active, c.active, false
	}
	c.pending = false
	prev = c.active
	c.active = ActiveIndex(c.offset, c.viewportHeight, c.itemCount)
	c.offset = float64(c.active * c.viewportHeight)
	return prev, c.active, prev != c.active
}

// Window returns the current render range with the coordinator's buffers.
func (c *Coordinator) Window() (start, end int) {
	return Window(c.active, c.itemCount, c.bufferBefore, c.bufferAfter)
}

func (c *Coordinator) clampOffset() {
	if c.offset < 0 {
		c.offset = 0
	}
	maxOffset := float64((c.itemCount - 1) * c.viewportHeight)
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.offset > maxOffset {
		c.offset = maxOffset
	}
	if c.active > c.itemCount-1 {
		c.active = c.itemCount - 1
	}
	if c.active < 0 {
		c.active = 0
	}
}
