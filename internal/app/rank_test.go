package app

import (
	"testing"
	"time"

	"github.com/tallard/campusreel/internal/media"
)

func TestRecencyOrdersNewestFirst(t *testing.T) {
	items := []media.Item{
		{ID: "a", UploadedAt: 100},
		{ID: "c", UploadedAt: 300},
		{ID: "b", UploadedAt: 200},
	}
	Recency{}.Rank(items, time.Now())

	if items[0].ID != "c" || items[1].ID != "b" || items[2].ID != "a" {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestPopularDecaysOldEngagement(t *testing.T) {
	now := time.Now()
	fresh := now.Add(-time.Hour).UnixMilli()
	stale := now.Add(-14 * 24 * time.Hour).UnixMilli()

	items := []media.Item{
		{ID: "old-hit", UploadedAt: stale, ViewCount: 10, Engagement: 100},
		{ID: "fresh-mid", UploadedAt: fresh, ViewCount: 8, Engagement: 50},
	}
	Popular{}.Rank(items, now)

	if items[0].ID != "fresh-mid" {
		t.Fatalf("fresh item must outrank a decayed hit: %+v", items)
	}
}

func TestPopularTieBreaksOnUpload(t *testing.T) {
	now := time.Now()
	items := []media.Item{
		{ID: "older", UploadedAt: 100},
		{ID: "newer", UploadedAt: 200},
	}
	Popular{}.Rank(items, now)

	if items[0].ID != "newer" {
		t.Fatalf("zero-score tie must fall back to recency: %+v", items)
	}
}

func TestStrategyForDefaultsToRecency(t *testing.T) {
	if StrategyFor("popular").Name() != "popular" {
		t.Fatal("expected popular strategy")
	}
	if StrategyFor("nonsense").Name() != "recency" {
		t.Fatal("unknown modes must fall back to recency")
	}
}
