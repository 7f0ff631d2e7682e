package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tallard/campusreel/internal/media"
	"github.com/tallard/campusreel/internal/remote"
	"github.com/tallard/campusreel/internal/storage"
)

// Exercises the real sqlite repository against an in-process item store.
func TestIntegration_RefreshBookmarkAndOfflineStartup(t *testing.T) {
	page := []media.Item{
		{ID: "ev-1", Kind: media.KindImage, Title: "Hack Night", UploadedAt: 200, EventDate: time.Now().AddDate(0, 0, 3)},
		{ID: "ev-2", Kind: media.KindVideo, Title: "Dance Finals", UploadedAt: 100, EventDate: time.Now().AddDate(0, 0, 5)},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "campusreel.db"))
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	client := remote.NewClient(server.URL, "", nil)
	svc := NewService(client, repo, nil)

	items, _, err := svc.Refresh(ctx, 50)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "ev-1" {
		t.Fatalf("unexpected refreshed page: %+v", items)
	}

	if err := svc.SetBookmark(ctx, "ev-2", true); err != nil {
		t.Fatalf("SetBookmark returned error: %v", err)
	}

	// Offline startup: the store is unreachable, the cache serves the
	// last page with the durable bookmark set.
	server.Close()
	cached, bookmarked, err := svc.ListCached(ctx, 50)
	if err != nil {
		t.Fatalf("ListCached returned error: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("expected the cached page, got %+v", cached)
	}
	if !bookmarked["ev-2"] {
		t.Fatalf("expected durable bookmark for ev-2, got %v", bookmarked)
	}
}
