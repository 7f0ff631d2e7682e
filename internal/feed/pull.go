package feed

// Pull gesture constants, in logical pixels of drag.
const (
	// PullMaxDistance caps the indicator travel so it never overshoots.
	PullMaxDistance = 120.0
	// PullThreshold is the release distance above which a refresh fires.
	PullThreshold = 80.0
	// pullResistance dampens drag travel beyond the threshold, giving the
	// elastic feel without pushing the release point out of thumb range.
	pullResistance = 0.5
)

// PullPhase is the state of the pull-to-refresh gesture machine.
type PullPhase int

const (
	PullResting PullPhase = iota
	PullPulling
	PullRefreshing
)

func (p PullPhase) String() string {
	switch p {
	case PullPulling:
		return "pulling"
	case PullRefreshing:
		return "refreshing"
	}
	return "resting"
}

// PullController translates raw vertical drag deltas into a refresh
// trigger. A gesture only arms when it begins with the feed at offset zero,
// and at most one refresh is in flight: gestures started while refreshing
// are ignored until RefreshDone.
type PullController struct {
	phase    PullPhase
	raw      float64
	distance float64
}

func NewPullController() *PullController { return &PullController{} }

func (p *PullController) Phase() PullPhase  { return p.phase }
func (p *PullController) Distance() float64 { return p.distance }

// TouchStart begins a gesture. atTop must reflect the scroll container at
// the moment the touch lands; mid-feed touches never arm the controller.
func (p *PullController) TouchStart(atTop bool) {
	if p.phase != PullResting || !atTop {
		return
	}
	p.phase = PullPulling
	p.raw = 0
	p.distance = 0
}

// Drag feeds a raw downward delta (negative deltas pull the indicator
// back). The visual distance tracks the raw travel up to the threshold,
// then compresses at half rate, clamped to PullMaxDistance.
func (p *PullController) Drag(delta float64) {
	if p.phase != PullPulling {
		return
	}
	p.raw += delta
	if p.raw < 0 {
		p.raw = 0
	}
	p.distance = dampenPull(p.raw)
}

// Release settles the gesture. It reports true exactly when the release
// distance exceeds PullThreshold, in which case the controller stays in
// PullRefreshing until RefreshDone.
func (p *PullController) Release() bool {
	if p.phase != PullPulling {
		return false
	}
	if p.distance > PullThreshold {
		p.phase = PullRefreshing
		p.distance = 0
		p.raw = 0
		return true
	}
	p.phase = PullResting
	p.distance = 0
	p.raw = 0
	return false
}

// RefreshDone returns to resting once the refresh call settles, success or
// failure alike; the refresh call owns its own error surfacing.
func (p *PullController) RefreshDone() {
	if p.phase == PullRefreshing {
		p.phase = PullResting
	}
}

func dampenPull(raw float64) float64 {
	d := raw
	if d > PullThreshold {
		d = PullThreshold + (d-PullThreshold)*pullResistance
	}
	if d > PullMaxDistance {
		d = PullMaxDistance
	}
	if d < 0 {
		d = 0
	}
	return d
}
