package feed

// TrackerConfig tunes when an item counts as visible. ThresholdFraction is
// the minimum intersecting share of the item height; PreloadMargin expands
// the visible interval by that many rows so media loads start slightly
// before the item physically enters view.
type TrackerConfig struct {
	ThresholdFraction float64
	PreloadMargin     int
}

const defaultThresholdFraction = 0.1

// Tracker observes whether an item's row interval intersects the visible
// viewport. It keeps two flags: Visible (intersecting right now) and
// EverVisible (sticky once Visible has been true; never resets). With
// unknown geometry it fails open: a slot should rather over-render than
// never render.
type Tracker struct {
	cfg      TrackerConfig
	visible  bool
	ever     bool
	detached bool
}

func NewTracker(cfg TrackerConfig) *Tracker {
	if cfg.ThresholdFraction <= 0 || cfg.ThresholdFraction > 1 {
		cfg.ThresholdFraction = defaultThresholdFraction
	}
	if cfg.PreloadMargin < 0 {
		cfg.PreloadMargin = 0
	}
	return &Tracker{cfg: cfg}
}

// Observe feeds the tracker one frame of geometry: the item occupies rows
// [itemTop, itemTop+itemHeight) and the viewport shows [viewTop,
// viewTop+viewHeight). Calls after Detach are no-ops.
func (t *Tracker) Observe(itemTop, itemHeight, viewTop, viewHeight int) {
	if t.detached {
		return
	}
	if itemHeight <= 0 || viewHeight <= 0 {
		// Geometry unavailable: fail open.
		t.visible = true
		t.ever = true
		return
	}

	lo := viewTop - t.cfg.PreloadMargin
	hi := viewTop + viewHeight + t.cfg.PreloadMargin
	overlapLo := max(itemTop, lo)
	overlapHi := min(itemTop+itemHeight, hi)
	overlap := overlapHi - overlapLo
	if overlap < 0 {
		overlap = 0
	}

	t.visible = float64(overlap) >= t.cfg.ThresholdFraction*float64(itemHeight)
	if t.visible {
		t.ever = true
	}
}

func (t *Tracker) Visible() bool     { return !t.detached && t.visible }
func (t *Tracker) EverVisible() bool { return t.ever }

// Detach disconnects the tracker when its slot unmounts; the current flag
// goes dark and further observations are ignored.
func (t *Tracker) Detach() {
	t.detached = true
	t.visible = false
}

func (t *Tracker) Detached() bool { return t.detached }
