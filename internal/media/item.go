package media

import (
	"fmt"
	"math"
	"time"
)

// Kind selects which slot variant renders an item and which engagement
// semantics apply: videos accrue watch time while playing, images and
// documents accrue visible-dwell time.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindImage, KindVideo, KindDocument:
		return Kind(raw), nil
	}
	return "", fmt.Errorf("unknown media kind: %q", raw)
}

// Category is the closed event-category enumeration.
type Category string

const (
	CategoryTechnical       Category = "technical"
	CategoryCultural        Category = "cultural"
	CategoryGuestTalks      Category = "guest-talks"
	CategoryInterCollege    Category = "inter-college"
	CategoryInterDepartment Category = "inter-department"
	CategorySports          Category = "sports"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryTechnical,
		CategoryCultural,
		CategoryGuestTalks,
		CategoryInterCollege,
		CategoryInterDepartment,
		CategorySports,
	}
}

func ParseCategory(raw string) (Category, error) {
	for _, c := range Categories() {
		if Category(raw) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", raw)
}

// Item is the subset of remote item-store fields required by the app.
// IsBookmarked is never part of the wire payload; it is merged in from the
// local bookmark set when a remote page is loaded.
type Item struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	PageCount    int       `json:"page_count,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     Category  `json:"category"`
	EventDate    time.Time `json:"event_date"`
	Location     string    `json:"location,omitempty"`
	Organizer    string    `json:"organizer,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	ViewCount    int64     `json:"view_count"`
	Engagement   float64   `json:"engagement_time"`
	UploadedAt   int64     `json:"uploaded_at"`

	IsBookmarked bool `json:"-"`
}

// UploadedTime converts the millisecond upload stamp to a time.Time.
func (i Item) UploadedTime() time.Time {
	return time.UnixMilli(i.UploadedAt).UTC()
}

// EvictionHorizon is how long past its event date an item stays in the
// local collection.
const EvictionHorizon = 30 * 24 * time.Hour

// Expired reports whether the item's event date has aged out relative to now.
func Expired(i Item, now time.Time) bool {
	return i.EventDate.Before(now.Add(-EvictionHorizon))
}

func IndexByID(items []Item, id string) int {
	for idx, item := range items {
		if item.ID == id {
			return idx
		}
	}
	return -1
}

// FormatEventDate renders the relative event-date label shown on a slide.
func FormatEventDate(eventDate, now time.Time) string {
	days := int(math.Ceil(eventDate.Sub(now).Hours() / 24))
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days > 1:
		return fmt.Sprintf("In %d days", days)
	}
	return "Past event"
}
