package feed

import "testing"

func TestPullIgnoresGestureStartedMidFeed(t *testing.T) {
	p := NewPullController()
	p.TouchStart(false)
	p.Drag(100)
	if p.Phase() != PullResting || p.Distance() != 0 {
		t.Fatalf("mid-feed gesture must not arm: phase=%v distance=%v", p.Phase(), p.Distance())
	}
	if p.Release() {
		t.Fatal("release of an unarmed gesture must not refresh")
	}
}

func TestPullDistanceStaysWithinBounds(t *testing.T) {
	p := NewPullController()
	p.TouchStart(true)
	for i := 0; i < 100; i++ {
		p.Drag(25)
		if d := p.Distance(); d < 0 || d > PullMaxDistance {
			t.Fatalf("distance %v outside [0, %v]", d, PullMaxDistance)
		}
	}
	if p.Distance() != PullMaxDistance {
		t.Fatalf("expected clamp at %v, got %v", PullMaxDistance, p.Distance())
	}

	p.Drag(-100000)
	if p.Distance() != 0 {
		t.Fatalf("negative travel must clamp at 0, got %v", p.Distance())
	}
}

func TestPullHundredPixelDragLandsAboveThreshold(t *testing.T) {
	p := NewPullController()
	p.TouchStart(true)
	p.Drag(100)

	d := p.Distance()
	if d <= PullThreshold || d >= 100 {
		t.Fatalf("100px drag must dampen into (%v, 100), got %v", PullThreshold, d)
	}
	if !p.Release() {
		t.Fatal("release above threshold must trigger a refresh")
	}
	if p.Phase() != PullRefreshing {
		t.Fatalf("expected refreshing phase, got %v", p.Phase())
	}
}

func TestPullBelowThresholdSnapsBack(t *testing.T) {
	p := NewPullController()
	p.TouchStart(true)
	p.Drag(60)
	if p.Release() {
		t.Fatal("release below threshold must not refresh")
	}
	if p.Phase() != PullResting || p.Distance() != 0 {
		t.Fatalf("expected snap back to resting, phase=%v distance=%v", p.Phase(), p.Distance())
	}
}

func TestPullSingleRefreshInFlight(t *testing.T) {
	p := NewPullController()
	p.TouchStart(true)
	p.Drag(150)
	if !p.Release() {
		t.Fatal("expected first release to refresh")
	}

	// Second gesture while the first refresh is still in flight.
	p.TouchStart(true)
	p.Drag(150)
	if p.Distance() != 0 {
		t.Fatalf("gesture during refresh must be ignored, distance=%v", p.Distance())
	}
	if p.Release() {
		t.Fatal("second release must not trigger another refresh")
	}

	p.RefreshDone()
	if p.Phase() != PullResting {
		t.Fatalf("expected resting after RefreshDone, got %v", p.Phase())
	}
	p.TouchStart(true)
	p.Drag(150)
	if !p.Release() {
		t.Fatal("gesture after settle must refresh again")
	}
}

func TestPullRefreshFiresIffDistanceAboveThreshold(t *testing.T) {
	for raw := 0.0; raw <= 400; raw += 7 {
		p := NewPullController()
		p.TouchStart(true)
		p.Drag(raw)
		want := p.Distance() > PullThreshold
		if got := p.Release(); got != want {
			t.Fatalf("raw=%v distance-side=%v release=%v", raw, want, got)
		}
	}
}
