// Package domain contains the core types shared across the application.
package domain

import (
	"net/url"
	"time"
)

// Collection names for the per-user library store.
const (
	CollectionMyList  = "mylist"
	CollectionHistory = "history"
)

// CategoryAll is the filter sentinel that matches every video.
const CategoryAll = "all"

// Categories is the fixed category set exposed to clients.
var Categories = []string{"LLM", "ML", "DS", "DataPlatform"}

// ValidCollection reports whether name is a known library collection.
func ValidCollection(name string) bool {
	return name == CollectionMyList || name == CollectionHistory
}

// Video is a catalog entry. Records arrive from the external catalog
// endpoint and are stored as-is in the per-user collections.
type Video struct {
	// ID is the upstream identifier. May be empty for older records.
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	DriveLink   string `json:"driveLink"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// Identity returns the stable key for a video: the upstream ID when
// present, otherwise the query-escaped drive link. Two videos share an
// identity only when they are the same record.
func (v Video) Identity() string {
	if v.ID != "" {
		return v.ID
	}
	return url.QueryEscape(v.DriveLink)
}

// HistoryEntry is a video the user has played, stamped with the most
// recent play time. Replaying overwrites the entry (last view wins).
type HistoryEntry struct {
	Video
	ViewedAt time.Time `json:"viewedAt"`
}
