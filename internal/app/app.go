package app

import (
	"context"
	"fmt"
	"time"

	"github.com/tallard/campusreel/internal/media"
	"github.com/tallard/campusreel/internal/storage"
)

// ItemStore is the remote side of the feed.
type ItemStore interface {
	ListItems(ctx context.Context, limit int) ([]media.Item, error)
	AppendItem(ctx context.Context, item media.Item) (media.Item, error)
	UpdateEngagement(ctx context.Context, id string, viewCount int64, engagement float64) error
}

// Repository is the local sidecar: bookmark set, preferences and the
// offline item cache.
type Repository interface {
	SaveItems(ctx context.Context, items []media.Item) error
	ListItems(ctx context.Context, limit int) ([]media.Item, error)
	SetBookmark(ctx context.Context, id string, bookmarked bool) error
	BookmarkedIDs(ctx context.Context) (map[string]bool, error)
	SetPreference(ctx context.Context, key, value string) error
	Preference(ctx context.Context, key, fallback string) (string, error)
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// Preferences are the persisted per-user toggles.
type Preferences struct {
	Autoplay bool
	Captions bool
	RankMode string
}

type Service struct {
	store   ItemStore
	repo    Repository
	ranking Strategy
}

func NewService(store ItemStore, repo Repository, ranking Strategy) *Service {
	if ranking == nil {
		ranking = Recency{}
	}
	return &Service{store: store, repo: repo, ranking: ranking}
}

// Refresh fetches the latest page, ranks it, replaces the offline cache
// and returns the page together with the durable bookmark set so the
// caller can merge both into its in-memory state.
func (s *Service) Refresh(ctx context.Context, limit int) ([]media.Item, map[string]bool, error) {
	items, err := s.store.ListItems(ctx, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch items: %w", err)
	}
	s.ranking.Rank(items, time.Now())

	if err := s.repo.SaveItems(ctx, items); err != nil {
		return nil, nil, fmt.Errorf("save items to cache: %w", err)
	}

	bookmarked, err := s.repo.BookmarkedIDs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load bookmark set: %w", err)
	}
	return items, bookmarked, nil
}

// ListCached serves the last saved page for offline startup.
func (s *Service) ListCached(ctx context.Context, limit int) ([]media.Item, map[string]bool, error) {
	items, err := s.repo.ListItems(ctx, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("load items from cache: %w", err)
	}
	s.ranking.Rank(items, time.Now())

	bookmarked, err := s.repo.BookmarkedIDs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load bookmark set: %w", err)
	}
	return items, bookmarked, nil
}

// SetBookmark persists the flag. The caller has already flipped its
// in-memory copy; an error here means that copy must be rolled back.
func (s *Service) SetBookmark(ctx context.Context, id string, bookmarked bool) error {
	if err := s.repo.SetBookmark(ctx, id, bookmarked); err != nil {
		return fmt.Errorf("persist bookmark %s: %w", id, err)
	}
	return nil
}

// UpdateEngagement writes absolute counter totals to the store.
func (s *Service) UpdateEngagement(ctx context.Context, id string, viewCount int64, engagement float64) error {
	if err := s.store.UpdateEngagement(ctx, id, viewCount, engagement); err != nil {
		return fmt.Errorf("write engagement for %s: %w", id, err)
	}
	return nil
}

// Append uploads a new item to the store.
func (s *Service) Append(ctx context.Context, item media.Item) (media.Item, error) {
	created, err := s.store.AppendItem(ctx, item)
	if err != nil {
		return media.Item{}, fmt.Errorf("append item: %w", err)
	}
	return created, nil
}

// Cleanup sweeps aged-out items from the offline cache.
func (s *Service) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	removed, err := s.repo.PruneExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("prune expired items: %w", err)
	}
	return removed, nil
}

// LoadPreferences reads the persisted toggles, with defaults for a
// fresh install.
func (s *Service) LoadPreferences(ctx context.Context) (Preferences, error) {
	autoplay, err := s.repo.Preference(ctx, storage.PrefAutoplay, "on")
	if err != nil {
		return Preferences{}, fmt.Errorf("load autoplay preference: %w", err)
	}
	captions, err := s.repo.Preference(ctx, storage.PrefCaptions, "on")
	if err != nil {
		return Preferences{}, fmt.Errorf("load captions preference: %w", err)
	}
	rankMode, err := s.repo.Preference(ctx, storage.PrefRankMode, Recency{}.Name())
	if err != nil {
		return Preferences{}, fmt.Errorf("load rank preference: %w", err)
	}
	return Preferences{
		Autoplay: autoplay == "on",
		Captions: captions == "on",
		RankMode: rankMode,
	}, nil
}

// SavePreferences persists the toggles and switches the active ranking
// to match.
func (s *Service) SavePreferences(ctx context.Context, prefs Preferences) error {
	set := func(key string, on bool) error {
		value := "off"
		if on {
			value = "on"
		}
		return s.repo.SetPreference(ctx, key, value)
	}
	if err := set(storage.PrefAutoplay, prefs.Autoplay); err != nil {
		return fmt.Errorf("save autoplay preference: %w", err)
	}
	if err := set(storage.PrefCaptions, prefs.Captions); err != nil {
		return fmt.Errorf("save captions preference: %w", err)
	}
	if err := s.repo.SetPreference(ctx, storage.PrefRankMode, prefs.RankMode); err != nil {
		return fmt.Errorf("save rank preference: %w", err)
	}
	s.ranking = StrategyFor(prefs.RankMode)
	return nil
}
