package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tallard/campusreel/internal/media"
)

func TestListItems(t *testing.T) {
	var gotLimit, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		gotLimit = r.URL.Query().Get("limit")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]media.Item{
			{ID: "a", Kind: media.KindImage, Title: "Robotics Expo"},
			{ID: "b", Kind: media.KindVideo, Title: "Band Night"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", nil)
	items, err := client.ListItems(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if gotLimit != "50" {
		t.Fatalf("expected limit=50, got %q", gotLimit)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
}

func TestListItemsClampsLimit(t *testing.T) {
	var gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	if _, err := client.ListItems(context.Background(), 5000); err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	if gotLimit != "50" {
		t.Fatalf("expected page cap of 50, got %q", gotLimit)
	}
}

func TestErrorTaxonomyFromStatus(t *testing.T) {
	cases := []struct {
		status int
		code   ErrorCode
	}{
		{http.StatusForbidden, CodePermissionDenied},
		{http.StatusUnauthorized, CodePermissionDenied},
		{http.StatusNotFound, CodeNotFound},
		{http.StatusTooManyRequests, CodeRateLimited},
		{http.StatusServiceUnavailable, CodeUnavailable},
		{http.StatusTeapot, CodeUnknown},
	}
	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		}))

		client := NewClient(server.URL, "", nil)
		_, err := client.ListItems(context.Background(), 10)
		server.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		var se *StoreError
		if !errors.As(err, &se) {
			t.Fatalf("status %d: expected StoreError in chain, got %v", tc.status, err)
		}
		if se.Code != tc.code {
			t.Fatalf("status %d: expected code %s, got %s", tc.status, tc.code, se.Code)
		}
		if Code(err) != tc.code {
			t.Fatalf("status %d: Code helper disagrees: %s", tc.status, Code(err))
		}
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", &http.Client{Timeout: 200 * time.Millisecond})
	_, err := client.ListItems(context.Background(), 10)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if Code(err) != CodeUnavailable {
		t.Fatalf("expected unavailable, got %s", Code(err))
	}
	if !Transient(err) {
		t.Fatal("transport failure must be transient")
	}
}

func TestAppendItemAssignsIdentity(t *testing.T) {
	var received media.Item
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode posted item: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(received)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	created, err := client.AppendItem(context.Background(), media.Item{
		Kind:      media.KindDocument,
		Title:     "Fest Brochure",
		Category:  media.CategoryCultural,
		ViewCount: 999, // must be zeroed
	})
	if err != nil {
		t.Fatalf("AppendItem returned error: %v", err)
	}
	if created.ID == "" || received.ID != created.ID {
		t.Fatalf("expected a client-assigned id, got %q / %q", created.ID, received.ID)
	}
	if created.UploadedAt == 0 {
		t.Fatal("expected an upload stamp")
	}
	if created.ViewCount != 0 || created.Engagement != 0 {
		t.Fatalf("counters must start at zero: %+v", created)
	}
}

func TestUpdateEngagementSendsAbsoluteTotals(t *testing.T) {
	var gotPath string
	var body map[string]float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPatch {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", nil)
	if err := client.UpdateEngagement(context.Background(), "ev-1", 12, 99.5); err != nil {
		t.Fatalf("UpdateEngagement returned error: %v", err)
	}
	if gotPath != "/items/ev-1.json" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if body["view_count"] != 12 || body["engagement_time"] != 99.5 {
		t.Fatalf("expected absolute totals, got %v", body)
	}
}
