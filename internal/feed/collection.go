package feed

import (
	"time"

	"github.com/tallard/campusreel/internal/media"
)

// EngagementTotals carries the new absolute counters for a remote write.
// Absolute totals, not deltas, so a retried write cannot double count.
type EngagementTotals struct {
	ViewCount  int64
	Engagement float64
}

// Collection is the single mutation entry point for the local item list.
// View code reads snapshots; every mutation funnels through one of the
// methods below, so the single-writer convention holds even while remote
// snapshots and optimistic mutations interleave.
type Collection struct {
	items []media.Item

	// ids with a locally applied engagement delta not yet confirmed
	// remotely; the merge policy prefers the local counters for these.
	pendingCounters map[string]bool
}

func NewCollection(items []media.Item) *Collection {
	return &Collection{
		items:           append([]media.Item(nil), items...),
		pendingCounters: make(map[string]bool),
	}
}

func (c *Collection) Len() int { return len(c.items) }

// Items returns the backing slice for rendering. Callers must not mutate it.
func (c *Collection) Items() []media.Item { return c.items }

func (c *Collection) At(i int) (media.Item, bool) {
	if i < 0 || i >= len(c.items) {
		return media.Item{}, false
	}
	return c.items[i], true
}

func (c *Collection) Get(id string) (media.Item, bool) {
	if i := media.IndexByID(c.items, id); i >= 0 {
		return c.items[i], true
	}
	return media.Item{}, false
}

// ToggleBookmark flips the flag optimistically and returns the new value.
func (c *Collection) ToggleBookmark(id string) (next bool, ok bool) {
	i := media.IndexByID(c.items, id)
	if i < 0 {
		return false, false
	}
	c.items[i].IsBookmarked = !c.items[i].IsBookmarked
	return c.items[i].IsBookmarked, true
}

// RevertBookmark rolls back a failed optimistic toggle. The revert is keyed
// by the specific value whose confirmation failed: if a newer toggle has
// already moved the flag elsewhere, the last user intent stands and the
// revert is a no-op.
func (c *Collection) RevertBookmark(id string, failedValue bool) bool {
	i := media.IndexByID(c.items, id)
	if i < 0 {
		return false
	}
	if c.items[i].IsBookmarked != failedValue {
		return false
	}
	c.items[i].IsBookmarked = !failedValue
	return true
}

// ApplyEngagement folds one activation delta into the item's counters.
// Engagement time always accrues; the view count increments only when the
// delta exceeds the dwell threshold. The returned totals are the absolute
// values to ship to the remote store.
func (c *Collection) ApplyEngagement(id string, delta float64) (EngagementTotals, bool) {
	i := media.IndexByID(c.items, id)
	if i < 0 || delta < 0 {
		return EngagementTotals{}, false
	}
	c.items[i].Engagement += delta
	if delta > DwellThreshold {
		c.items[i].ViewCount++
	}
	c.pendingCounters[id] = true
	return EngagementTotals{
		ViewCount:  c.items[i].ViewCount,
		Engagement: c.items[i].Engagement,
	}, true
}

// ConfirmEngagement marks an item's counters as remotely confirmed, letting
// the next remote snapshot win for them again.
func (c *Collection) ConfirmEngagement(id string) {
	delete(c.pendingCounters, id)
}

// MergeRemote replaces the collection with a remote snapshot, resolving
// conflicts per field: content fields take the remote value, the bookmark
// flag prefers local state (falling back to the durable bookmark set for
// unseen items), and engagement counters keep the local value while a
// locally applied delta is still unconfirmed.
func (c *Collection) MergeRemote(remote []media.Item, bookmarked map[string]bool) {
	merged := make([]media.Item, 0, len(remote))
	for _, in := range remote {
		out := in
		if i := media.IndexByID(c.items, in.ID); i >= 0 {
			local := c.items[i]
			out.IsBookmarked = local.IsBookmarked
			if c.pendingCounters[in.ID] {
				out.ViewCount = local.ViewCount
				out.Engagement = local.Engagement
			}
		} else {
			out.IsBookmarked = bookmarked[in.ID]
		}
		merged = append(merged, out)
	}
	c.items = merged

	for id := range c.pendingCounters {
		if media.IndexByID(c.items, id) < 0 {
			delete(c.pendingCounters, id)
		}
	}
}

// Cleanup sweeps items whose event date aged past the eviction horizon.
// It is idempotent under repeated sweeps and returns the number removed.
func (c *Collection) Cleanup(now time.Time) int {
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if media.Expired(item, now) {
			removed++
			delete(c.pendingCounters, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	return removed
}
