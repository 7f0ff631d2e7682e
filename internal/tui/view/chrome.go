package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tallard/campusreel/internal/feed"
	"github.com/tallard/campusreel/internal/media"
	tuitheme "github.com/tallard/campusreel/internal/tui/theme"
)

func Toolbar(overlayShown bool) string {
	if overlayShown {
		return "i/esc: close info | j/k: next/prev | b: save | s: share | q: quit"
	}
	return "j/k move | space pause | b save | i info | s share | 1-6/a filter | R rank | r refresh | q quit"
}

// Footer is the one-line status strip under the active slide.
func Footer(position, total int, filter media.Category, rankMode string, online bool, th tuitheme.Theme) string {
	shown := "empty feed"
	if total > 0 {
		shown = fmt.Sprintf("%d/%d", position+1, total)
	}
	parts := []string{
		th.MetaLabel.Render("feed") + " " + th.MetaValue.Render(shown),
		th.MetaLabel.Render("rank") + " " + th.MetaValue.Render(rankMode),
	}
	if filter != "" {
		parts = append(parts, th.MetaLabel.Render("filter")+" "+th.RenderCategoryPill(filter))
	}
	if !online {
		parts = append(parts, th.Banner.Render("offline"))
	}
	return strings.Join(parts, " • ")
}

func Toast(text string, isError bool, th tuitheme.Theme) string {
	if text == "" {
		return ""
	}
	if isError {
		return th.ToastError.Render(text)
	}
	return th.Toast.Render(text)
}

func OfflineBanner(th tuitheme.Theme) string {
	return th.Banner.Render("Offline, showing the last saved feed")
}

// ErrorBanner is the persistent strip for a broken live stream. It
// stays up until the user dismisses it or the stream recovers.
func ErrorBanner(text string, th tuitheme.Theme) string {
	if text == "" {
		return ""
	}
	return th.Banner.Render(text + " (esc to dismiss)")
}

// PullIndicator renders the pull-to-refresh strip above the first slide.
// The bar fills toward the release threshold, then flips to the release
// hint; a running refresh shows the spinner frame passed in.
func PullIndicator(distance float64, refreshing bool, spinnerFrame string, th tuitheme.Theme) string {
	if refreshing {
		return th.PullReady.Render(spinnerFrame + " Refreshing feed")
	}
	if distance <= 0 {
		return ""
	}
	if distance > feed.PullThreshold {
		return th.PullReady.Render("Release to refresh")
	}
	const barWidth = 20
	filled := int(distance / feed.PullThreshold * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
	return th.PullHint.Render("Pull to refresh " + bar)
}

// CompactCount renders view counts the way the badge shows them:
// 987, 1.2K, 3.4M.
func CompactCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 1_000:
		return trimTrailingZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "K"
	}
	return fmt.Sprintf("%d", n)
}

func trimTrailingZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// UploadAge renders how long ago an item was uploaded.
func UploadAge(item media.Item, now time.Time) string {
	uploaded := item.UploadedTime()
	if uploaded.After(now) {
		return "just now"
	}
	return humanize.RelTime(uploaded, now, "ago", "from now")
}

// MetaLine is the slide's detail strip: date, location, organizer and
// the view-count badge.
func MetaLine(item media.Item, now time.Time, th tuitheme.Theme) string {
	parts := []string{th.MetaValue.Render(media.FormatEventDate(item.EventDate, now))}
	if item.Location != "" {
		parts = append(parts, th.MetaValue.Render(item.Location))
	}
	if item.Organizer != "" {
		parts = append(parts, th.MetaLabel.Render("by")+" "+th.MetaValue.Render(item.Organizer))
	}
	parts = append(parts, th.CountBadge.Render(CompactCount(item.ViewCount)+" views"))
	return strings.Join(parts, " • ")
}
