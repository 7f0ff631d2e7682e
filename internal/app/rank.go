package app

import (
	"sort"
	"time"

	"github.com/tallard/campusreel/internal/media"
)

// Strategy orders a page of items in place.
type Strategy interface {
	Name() string
	Rank(items []media.Item, now time.Time)
}

// Recency orders by upload time, newest first. It is the default and
// matches the order the store already serves.
type Recency struct{}

func (Recency) Name() string { return "recency" }

func (Recency) Rank(items []media.Item, _ time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UploadedAt > items[j].UploadedAt
	})
}

// Popular orders by a blended engagement score, decayed so week-old
// items need roughly double the engagement to outrank fresh ones.
type Popular struct{}

func (Popular) Name() string { return "popular" }

func (Popular) Rank(items []media.Item, now time.Time) {
	scores := make(map[string]float64, len(items))
	for _, item := range items {
		scores[item.ID] = popularScore(item, now)
	}
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := scores[items[i].ID], scores[items[j].ID]
		if si != sj {
			return si > sj
		}
		return items[i].UploadedAt > items[j].UploadedAt
	})
}

func popularScore(item media.Item, now time.Time) float64 {
	score := item.Engagement + 10*float64(item.ViewCount)
	age := now.Sub(item.UploadedTime())
	if age < 0 {
		age = 0
	}
	halfLife := 7 * 24 * time.Hour
	return score / (1 + age.Seconds()/halfLife.Seconds())
}

// StrategyFor maps a persisted rank mode to its strategy, defaulting
// to recency for unknown values.
func StrategyFor(name string) Strategy {
	if name == (Popular{}).Name() {
		return Popular{}
	}
	return Recency{}
}
