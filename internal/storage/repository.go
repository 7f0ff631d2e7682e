package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tallard/campusreel/internal/media"
)

// Preference keys persisted across sessions.
const (
	PrefAutoplay = "autoplay"
	PrefCaptions = "captions"
	PrefRankMode = "rank_mode"
)

// Repository is the on-disk sidecar of the feed: the durable bookmark
// set, UI preferences and a cache of the last item page for offline
// startup.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS bookmarks (
  item_id TEXT PRIMARY KEY,
  saved_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  event_date TEXT NOT NULL,
  uploaded_at INTEGER NOT NULL,
  payload TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable probes the database with a throwaway write so a
// read-only data directory fails at startup instead of on the first
// bookmark.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin probe tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO preferences (key, value) VALUES ('_probe', '')`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("probe write: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM preferences WHERE key = '_probe'`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("probe delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit probe tx: %w", err)
	}
	return nil
}

// SetBookmark records or removes an item id from the durable bookmark set.
func (r *Repository) SetBookmark(ctx context.Context, id string, bookmarked bool) error {
	if bookmarked {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO bookmarks (item_id, saved_at) VALUES (?, ?)
ON CONFLICT(item_id) DO NOTHING
`, id, time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("save bookmark %s: %w", id, err)
		}
		return nil
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE item_id = ?`, id); err != nil {
		return fmt.Errorf("remove bookmark %s: %w", id, err)
	}
	return nil
}

// BookmarkedIDs returns the full durable bookmark set.
func (r *Repository) BookmarkedIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_id FROM bookmarks`)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return ids, nil
}

func (r *Repository) SetPreference(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO preferences (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, key, value)
	if err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}

// Preference returns the stored value, or fallback when the key was
// never set.
func (r *Repository) Preference(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("query preference %s: %w", key, err)
	}
	return value, nil
}

// SaveItems replaces the cached page. The cache holds exactly one page
// so offline startup mirrors the last thing the user actually saw.
func (r *Repository) SaveItems(ctx context.Context, items []media.Item) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear item cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO items (id, event_date, uploaded_at, payload) VALUES (?, ?, ?, ?)
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode item %s: %w", item.ID, err)
		}
		_, err = stmt.ExecContext(
			ctx,
			item.ID,
			item.EventDate.UTC().Format(time.RFC3339Nano),
			item.UploadedAt,
			string(payload),
		)
		if err != nil {
			return fmt.Errorf("save item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListItems returns the cached page, newest upload first.
func (r *Repository) ListItems(ctx context.Context, limit int) ([]media.Item, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT payload FROM items ORDER BY uploaded_at DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]media.Item, 0, limit)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		var item media.Item
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			return nil, fmt.Errorf("decode cached item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return items, nil
}

// PruneExpired drops cached items whose event date fell out of the
// retention horizon, with their bookmarks.
func (r *Repository) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-media.EvictionHorizon).UTC().Format(time.RFC3339Nano)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
DELETE FROM bookmarks WHERE item_id IN (SELECT id FROM items WHERE event_date < ?)
`, cutoff); err != nil {
		return 0, fmt.Errorf("prune bookmarks: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE event_date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune items: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return removed, nil
}
