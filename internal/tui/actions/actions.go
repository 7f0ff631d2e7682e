package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tallard/campusreel/internal/media"
)

// Service is the slice of the application layer the feed drives.
type Service interface {
	Refresh(ctx context.Context, limit int) ([]media.Item, map[string]bool, error)
	ListCached(ctx context.Context, limit int) ([]media.Item, map[string]bool, error)
	SetBookmark(ctx context.Context, id string, bookmarked bool) error
	UpdateEngagement(ctx context.Context, id string, viewCount int64, engagement float64) error
	Cleanup(ctx context.Context, now time.Time) (int64, error)
}

type RefreshSuccessMsg struct {
	Items      []media.Item
	Bookmarked map[string]bool
	Duration   time.Duration
	Source     string
}

type RefreshErrorMsg struct {
	Err      error
	Duration time.Duration
	Source   string
}

type CacheLoadSuccessMsg struct {
	Items      []media.Item
	Bookmarked map[string]bool
}

type CacheLoadErrorMsg struct {
	Err error
}

// BookmarkSaveSuccessMsg confirms the durable write of a toggle the
// model already applied optimistically.
type BookmarkSaveSuccessMsg struct {
	ItemID string
	Value  bool
}

// BookmarkSaveErrorMsg carries the value that failed to persist so the
// model can roll back exactly that toggle and nothing newer.
type BookmarkSaveErrorMsg struct {
	ItemID string
	Value  bool
	Err    error
}

type EngagementWriteSuccessMsg struct {
	ItemID string
}

type EngagementWriteErrorMsg struct {
	ItemID string
	Err    error
}

type CleanupDoneMsg struct {
	Removed int64
}

type SubscriptionPageMsg struct {
	Items []media.Item
}

type SubscriptionErrorMsg struct {
	Err error
}

type SubscriptionClosedMsg struct{}

type NetworkStatusMsg struct {
	Online bool
}

type NetworkProbeStoppedMsg struct{}

type MediaPreviewSuccessMsg struct {
	ItemID  string
	Preview string
}

type MediaPreviewErrorMsg struct {
	ItemID string
	Err    error
}

type ShareSuccessMsg struct {
	Status string
}

type ShareErrorMsg struct {
	Err error
}

type PreferenceSaveErrorMsg struct {
	Err error
}

type ClearToastMsg struct {
	ID int
}

func RefreshCmd(service Service, limit int, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		start := time.Now()

		items, bookmarked, err := service.Refresh(ctx, limit)
		if err != nil {
			return RefreshErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		return RefreshSuccessMsg{Items: items, Bookmarked: bookmarked, Duration: time.Since(start), Source: source}
	}
}

func LoadCacheCmd(service Service, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		items, bookmarked, err := service.ListCached(ctx, limit)
		if err != nil {
			return CacheLoadErrorMsg{Err: err}
		}
		return CacheLoadSuccessMsg{Items: items, Bookmarked: bookmarked}
	}
}

// SaveBookmarkCmd persists an already-applied toggle. value is the new
// flag the user chose; errors echo it back for the rollback.
func SaveBookmarkCmd(service Service, itemID string, value bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := service.SetBookmark(ctx, itemID, value); err != nil {
			return BookmarkSaveErrorMsg{ItemID: itemID, Value: value, Err: err}
		}
		return BookmarkSaveSuccessMsg{ItemID: itemID, Value: value}
	}
}

// WriteEngagementCmd flushes absolute counter totals for one item.
func WriteEngagementCmd(service Service, itemID string, viewCount int64, engagement float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := service.UpdateEngagement(ctx, itemID, viewCount, engagement); err != nil {
			return EngagementWriteErrorMsg{ItemID: itemID, Err: err}
		}
		return EngagementWriteSuccessMsg{ItemID: itemID}
	}
}

func CleanupCmd(service Service, now time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		removed, err := service.Cleanup(ctx, now)
		if err != nil {
			// A failed sweep retries next session; the feed stays usable.
			return CleanupDoneMsg{Removed: 0}
		}
		return CleanupDoneMsg{Removed: removed}
	}
}

// WaitForPageCmd blocks on the live subscription and converts the next
// page into a message. The model re-issues it after every delivery.
func WaitForPageCmd(pages <-chan []media.Item) tea.Cmd {
	return func() tea.Msg {
		page, ok := <-pages
		if !ok {
			return SubscriptionClosedMsg{}
		}
		return SubscriptionPageMsg{Items: page}
	}
}

func WaitForSubscriptionErrorCmd(errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return SubscriptionClosedMsg{}
		}
		return SubscriptionErrorMsg{Err: err}
	}
}

func WaitForNetworkCmd(changes <-chan bool) tea.Cmd {
	return func() tea.Msg {
		online, ok := <-changes
		if !ok {
			return NetworkProbeStoppedMsg{}
		}
		return NetworkStatusMsg{Online: online}
	}
}

// LoadPreviewCmd renders one slot's media into terminal cells.
func LoadPreviewCmd(itemID, url string, width, rows int, renderFn func(string, int, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		preview, err := renderFn(url, width, rows)
		if err != nil {
			return MediaPreviewErrorMsg{ItemID: itemID, Err: err}
		}
		return MediaPreviewSuccessMsg{ItemID: itemID, Preview: preview}
	}
}

// ShareCmd opens the item's page in a browser, falling back to copying
// the share text to the clipboard.
func ShareCmd(url, text string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return ShareSuccessMsg{Status: "Opened in browser"}
			}
		}
		if copyFn != nil {
			if err := copyFn(text); err == nil {
				return ShareSuccessMsg{Status: "Could not open browser, link copied"}
			}
		}
		return ShareErrorMsg{Err: fmt.Errorf("could not open or copy the link")}
	}
}

func ClearToastCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return ClearToastMsg{ID: id}
	})
}
