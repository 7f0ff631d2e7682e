package feed

import (
	"testing"
	"time"

	"github.com/tallard/campusreel/internal/media"
)

func testItems() []media.Item {
	return []media.Item{
		{ID: "1", Kind: media.KindImage, Title: "Hack Night", Category: media.CategoryTechnical},
		{ID: "2", Kind: media.KindVideo, Title: "Dance Finals", Category: media.CategoryCultural},
	}
}

func TestToggleBookmarkIsOptimistic(t *testing.T) {
	c := NewCollection(testItems())

	next, ok := c.ToggleBookmark("1")
	if !ok || !next {
		t.Fatalf("expected toggle to true, got next=%v ok=%v", next, ok)
	}
	item, _ := c.Get("1")
	if !item.IsBookmarked {
		t.Fatal("local state must reflect the toggle immediately")
	}

	next, _ = c.ToggleBookmark("1")
	if next {
		t.Fatal("second toggle must return to false")
	}
}

func TestRevertBookmarkKeyedByFailedValue(t *testing.T) {
	c := NewCollection(testItems())
	c.ToggleBookmark("1") // now true, write in flight

	// A newer toggle lands before the failure arrives.
	c.ToggleBookmark("1") // now false

	if c.RevertBookmark("1", true) {
		t.Fatal("revert of a stale value must not clobber newer intent")
	}
	item, _ := c.Get("1")
	if item.IsBookmarked {
		t.Fatal("last user intent (false) must stand")
	}

	// Failure for the value that is still current does roll back.
	c.ToggleBookmark("1") // true again
	if !c.RevertBookmark("1", true) {
		t.Fatal("expected rollback of current failed value")
	}
	item, _ = c.Get("1")
	if item.IsBookmarked {
		t.Fatal("expected flag rolled back to false")
	}
}

func TestApplyEngagementAccruesAndGatesViewCount(t *testing.T) {
	c := NewCollection(testItems())

	totals, ok := c.ApplyEngagement("2", 5)
	if !ok {
		t.Fatal("expected engagement applied")
	}
	if totals.Engagement != 5 || totals.ViewCount != 1 {
		t.Fatalf("expected totals {1, 5}, got %+v", totals)
	}

	totals, _ = c.ApplyEngagement("2", 2)
	if totals.Engagement != 7 {
		t.Fatalf("engagement time must only increase, got %v", totals.Engagement)
	}
	if totals.ViewCount != 1 {
		t.Fatalf("sub-threshold dwell must not count a view, got %d", totals.ViewCount)
	}

	if _, ok := c.ApplyEngagement("2", -1); ok {
		t.Fatal("negative delta must be rejected")
	}
}

func TestMergeRemotePolicyPerField(t *testing.T) {
	c := NewCollection(testItems())
	c.ToggleBookmark("1")        // local optimistic bookmark
	c.ApplyEngagement("2", 10)   // local pending counters
	c.ConfirmEngagement("zzz")   // unknown id confirm is harmless

	remote := []media.Item{
		{ID: "2", Kind: media.KindVideo, Title: "Dance Finals (updated)", ViewCount: 99, Engagement: 1},
		{ID: "1", Kind: media.KindImage, Title: "Hack Night", ViewCount: 7},
		{ID: "3", Kind: media.KindDocument, Title: "Fest Brochure"},
	}
	c.MergeRemote(remote, map[string]bool{"3": true})

	if c.Len() != 3 {
		t.Fatalf("expected remote page order and size, got %d", c.Len())
	}
	first, _ := c.At(0)
	if first.ID != "2" || first.Title != "Dance Finals (updated)" {
		t.Fatalf("content fields must take the remote value, got %+v", first)
	}
	if first.ViewCount != 1 || first.Engagement != 10 {
		t.Fatalf("pending local counters must win the merge, got %+v", first)
	}

	one, _ := c.Get("1")
	if !one.IsBookmarked {
		t.Fatal("bookmark flag must prefer local optimistic state")
	}
	if one.ViewCount != 7 {
		t.Fatalf("non-pending counters must take the remote value, got %d", one.ViewCount)
	}

	three, _ := c.Get("3")
	if !three.IsBookmarked {
		t.Fatal("unseen items must pick up the durable bookmark set")
	}
}

func TestMergeRemoteAfterConfirmPrefersRemoteCounters(t *testing.T) {
	c := NewCollection(testItems())
	c.ApplyEngagement("2", 10)
	c.ConfirmEngagement("2")

	c.MergeRemote([]media.Item{{ID: "2", Kind: media.KindVideo, ViewCount: 42, Engagement: 100}}, nil)
	item, _ := c.Get("2")
	if item.ViewCount != 42 || item.Engagement != 100 {
		t.Fatalf("confirmed counters must take remote values, got %+v", item)
	}
}

func TestCleanupSweepIsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	items := []media.Item{
		{ID: "old", EventDate: now.AddDate(0, 0, -31)},
		{ID: "edge", EventDate: now.AddDate(0, 0, -29)},
		{ID: "new", EventDate: now.AddDate(0, 0, 2)},
	}
	c := NewCollection(items)

	if removed := c.Cleanup(now); removed != 1 {
		t.Fatalf("expected 1 item swept, got %d", removed)
	}
	if _, ok := c.Get("old"); ok {
		t.Fatal("aged-out item must be removed")
	}
	if _, ok := c.Get("edge"); !ok {
		t.Fatal("item inside the horizon must be retained")
	}

	if removed := c.Cleanup(now); removed != 0 {
		t.Fatalf("repeated sweep must be a no-op, removed %d", removed)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 items after sweeps, got %d", c.Len())
	}
}
