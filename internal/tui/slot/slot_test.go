package slot

import (
	"strings"
	"testing"

	"github.com/tallard/campusreel/internal/media"
	tuitheme "github.com/tallard/campusreel/internal/tui/theme"
)

func TestLoadLifecycle(t *testing.T) {
	s := New(media.Item{ID: "a", Kind: media.KindImage, MediaURL: "https://cdn.example.edu/a.jpg"})

	if s.State() != StateEmpty {
		t.Fatalf("new slot must start empty, got %s", s.State())
	}
	if !s.MarkLoading() {
		t.Fatal("first MarkLoading must start a fetch")
	}
	if s.MarkLoading() {
		t.Fatal("loading slot must not refetch")
	}

	s.SetPreview("rendered cells")
	if s.State() != StateReady {
		t.Fatalf("expected ready, got %s", s.State())
	}
	if s.MarkLoading() {
		t.Fatal("ready slot must not refetch")
	}

	s.Release()
	if s.State() != StateEmpty {
		t.Fatalf("released slot must be empty, got %s", s.State())
	}
	if !s.MarkLoading() {
		t.Fatal("released slot must be loadable again")
	}
}

func TestFailureSticksThroughRelease(t *testing.T) {
	s := New(media.Item{ID: "a", Kind: media.KindImage})
	s.MarkLoading()
	s.SetFailure("status 404")

	s.Release()
	if s.State() != StateFailed {
		t.Fatalf("release must not clear a failure, got %s", s.State())
	}
	if s.MarkLoading() {
		t.Fatal("failed slot must not refetch on its own")
	}
}

func TestPreviewURLPerKind(t *testing.T) {
	image := New(media.Item{Kind: media.KindImage, MediaURL: "full", ThumbnailURL: "thumb"})
	if image.PreviewURL() != "full" {
		t.Fatalf("images render the full media, got %q", image.PreviewURL())
	}
	video := New(media.Item{Kind: media.KindVideo, MediaURL: "full", ThumbnailURL: "thumb"})
	if video.PreviewURL() != "thumb" {
		t.Fatalf("videos render the thumbnail, got %q", video.PreviewURL())
	}
	doc := New(media.Item{Kind: media.KindDocument, MediaURL: "full"})
	if doc.PreviewURL() != "full" {
		t.Fatalf("missing thumbnail falls back to media, got %q", doc.PreviewURL())
	}
}

func TestVideoPlayback(t *testing.T) {
	s := New(media.Item{Kind: media.KindVideo})
	if !s.Playing() {
		t.Fatal("videos start playing")
	}

	s.Advance(65)
	if !s.TogglePlay() {
		t.Fatal("expected toggle on a video")
	}
	s.Advance(10)

	strip := s.View(40, 10, tuitheme.Default())
	if !strings.Contains(strip, "paused") || !strings.Contains(strip, "1:05 watched") {
		t.Fatalf("paused time must freeze at 1:05: %q", strip)
	}

	image := New(media.Item{Kind: media.KindImage})
	if image.TogglePlay() {
		t.Fatal("images must ignore play toggles")
	}
}

func TestDocumentPagerClamps(t *testing.T) {
	s := New(media.Item{Kind: media.KindDocument, PageCount: 3})

	s.PrevPage()
	if s.Page() != 0 {
		t.Fatalf("pager must clamp at the first page, got %d", s.Page())
	}
	for i := 0; i < 10; i++ {
		s.NextPage()
	}
	if s.Page() != 2 {
		t.Fatalf("pager must clamp at the last page, got %d", s.Page())
	}

	view := s.View(40, 10, tuitheme.Default())
	if !strings.Contains(view, "page 3/3") {
		t.Fatalf("expected page counter, got %q", view)
	}
}

func TestPlaceholderShowsInitials(t *testing.T) {
	s := New(media.Item{Kind: media.KindImage, Title: "annual robotics expo finals"})
	view := s.View(40, 6, tuitheme.Default())
	if !strings.Contains(view, "ARE") {
		t.Fatalf("expected title initials placeholder, got %q", view)
	}
}
