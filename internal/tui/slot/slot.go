// Package slot manages the media area of one slide. A slot loads its
// preview lazily when the slide scrolls into the buffer window, renders
// a kind-specific surface while attached, and releases the preview when
// the slide leaves the window.
package slot

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tallard/campusreel/internal/media"
	tuitheme "github.com/tallard/campusreel/internal/tui/theme"
)

type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "empty"
}

type Slot struct {
	item    media.Item
	state   State
	preview string
	failure string

	page         int
	playing      bool
	watchSeconds float64
}

func New(item media.Item) *Slot {
	return &Slot{item: item, playing: item.Kind == media.KindVideo}
}

func (s *Slot) Item() media.Item { return s.item }
func (s *Slot) State() State     { return s.state }

// Preview exposes the rendered cells so the model can decide whether
// releasing this slot leaves terminal graphics behind.
func (s *Slot) Preview() string { return s.preview }

// UpdateItem refreshes the metadata without touching the loaded
// preview, so a remote merge does not flash the media area.
func (s *Slot) UpdateItem(item media.Item) { s.item = item }

// MarkLoading flags an in-flight preview fetch. Already-loaded and
// already-loading slots report false so the caller does not refetch.
func (s *Slot) MarkLoading() bool {
	if s.state == StateLoading || s.state == StateReady {
		return false
	}
	s.state = StateLoading
	return true
}

func (s *Slot) SetPreview(preview string) {
	s.preview = preview
	s.failure = ""
	s.state = StateReady
}

func (s *Slot) SetFailure(reason string) {
	s.preview = ""
	s.failure = reason
	s.state = StateFailed
}

// Release drops the rendered preview when the slide leaves the buffer
// window. A failed slot stays failed so it is not refetched in a loop
// while the user bounces around it.
func (s *Slot) Release() {
	if s.state == StateFailed {
		return
	}
	s.preview = ""
	s.state = StateEmpty
}

// PreviewURL picks what the loader should fetch for this kind: videos
// and documents render their thumbnail, images the full media.
func (s *Slot) PreviewURL() string {
	if s.item.Kind == media.KindImage {
		return s.item.MediaURL
	}
	if s.item.ThumbnailURL != "" {
		return s.item.ThumbnailURL
	}
	return s.item.MediaURL
}

// TogglePlay pauses or resumes a video slot. Other kinds ignore it.
func (s *Slot) TogglePlay() bool {
	if s.item.Kind != media.KindVideo {
		return false
	}
	s.playing = !s.playing
	return true
}

func (s *Slot) Playing() bool { return s.playing }

// Advance accrues simulated playback time while a video is playing.
func (s *Slot) Advance(seconds float64) {
	if s.item.Kind != media.KindVideo || !s.playing || seconds <= 0 {
		return
	}
	s.watchSeconds += seconds
}

// NextPage and PrevPage flip through a document's pages, clamped to
// the page count.
func (s *Slot) NextPage() {
	if s.item.Kind != media.KindDocument {
		return
	}
	if s.page < s.item.PageCount-1 {
		s.page++
	}
}

func (s *Slot) PrevPage() {
	if s.item.Kind != media.KindDocument {
		return
	}
	if s.page > 0 {
		s.page--
	}
}

func (s *Slot) Page() int { return s.page }

// View renders the media area at the given size.
func (s *Slot) View(width, rows int, th tuitheme.Theme) string {
	body := s.surface(width, rows, th)
	strip := s.kindStrip(th)
	if strip == "" {
		return body
	}
	return body + "\n" + strip
}

func (s *Slot) surface(width, rows int, th tuitheme.Theme) string {
	switch s.state {
	case StateReady:
		return s.preview
	case StateLoading:
		return placeholder(width, rows, "Loading "+string(s.item.Kind)+"…", th)
	case StateFailed:
		return placeholder(width, rows, "Preview unavailable", th)
	}
	return placeholder(width, rows, titleInitials(s.item.Title), th)
}

func (s *Slot) kindStrip(th tuitheme.Theme) string {
	switch s.item.Kind {
	case media.KindVideo:
		icon := "▶"
		label := "playing"
		if !s.playing {
			icon = "⏸"
			label = "paused"
		}
		return th.MetaLabel.Render(fmt.Sprintf("%s %s • %s watched", icon, label, watchLabel(s.watchSeconds)))
	case media.KindDocument:
		if s.item.PageCount > 0 {
			return th.MetaLabel.Render(fmt.Sprintf("page %d/%d • h/l to flip", s.page+1, s.item.PageCount))
		}
	}
	return ""
}

func watchLabel(seconds float64) string {
	total := int(seconds)
	if total < 60 {
		return fmt.Sprintf("0:%02d", total)
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func placeholder(width, rows int, label string, th tuitheme.Theme) string {
	if width < 10 {
		width = 10
	}
	if rows < 3 {
		rows = 3
	}
	style := th.Placeholder.
		Width(width).
		Height(rows).
		Align(lipgloss.Center, lipgloss.Center)
	return style.Render(label)
}

// titleInitials is the empty-state stand-in, like avatar initials.
func titleInitials(title string) string {
	fields := strings.Fields(title)
	var b strings.Builder
	for i, f := range fields {
		if i == 3 {
			break
		}
		runes := []rune(f)
		b.WriteRune(runes[0])
	}
	if b.Len() == 0 {
		return "?"
	}
	return strings.ToUpper(b.String())
}
