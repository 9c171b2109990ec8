package catalog

import (
	"time"

	"github.com/ziadkadry99/intentlang/internal/language"
)

// Status tells whether a pair loaded.
type Status string

const (
	StatusLoaded Status = "loaded"
	StatusFailed Status = "failed"
)

// Snapshot describes one catalog write.
type Snapshot struct {
	ID          string    `json:"id"`
	Agent       string    `json:"agent"`
	Fingerprint string    `json:"fingerprint"` // digest of the language files
	Languages   []string  `json:"languages"`
	IntentCount int       `json:"intent_count"`
	FailedCount int       `json:"failed_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// IntentEntry is the stored language data of one intent in one language.
type IntentEntry struct {
	SnapshotID   string                       `json:"snapshot_id"`
	Intent       string                       `json:"intent"`
	Language     string                       `json:"language"`
	Status       Status                       `json:"status"`
	Error        string                       `json:"error,omitempty"`
	ExampleCount int                          `json:"example_count"`
	Data         *language.IntentLanguageData `json:"data,omitempty"`
}

// EntityEntry is the stored language data of one custom entity.
type EntityEntry struct {
	SnapshotID string                 `json:"snapshot_id"`
	Entity     string                 `json:"entity"`
	Language   string                 `json:"language"`
	Status     Status                 `json:"status"`
	Error      string                 `json:"error,omitempty"`
	Entries    []language.EntityEntry `json:"entries"`
}

// ListFilter controls which intent entries List returns.
type ListFilter struct {
	Intent   string
	Language string
	Status   Status
	Limit    int
	Offset   int
}
