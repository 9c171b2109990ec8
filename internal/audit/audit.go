// Package audit keeps a history of catalog index runs. The catalog itself
// only holds the latest snapshot; the history survives every replacement.
package audit

import "time"

// Source identifies what started an index run.
type Source string

const (
	SourceCLI     Source = "cli"
	SourceStartup Source = "startup"
	SourceWatch   Source = "watch"
)

// Failure names one pair that did not load.
type Failure struct {
	Path  string `json:"path"` // <lang>/<intent> or <lang>/ENTITY_<entity>
	Error string `json:"error"`
}

// Entry is a single index run record.
type Entry struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	Source      Source        `json:"source"`
	Agent       string        `json:"agent"`
	SnapshotID  string        `json:"snapshot_id,omitempty"`
	Fingerprint string        `json:"fingerprint,omitempty"`
	Changed     bool          `json:"changed"` // fingerprint differs from the previous run
	PairCount   int           `json:"pair_count"`
	FailedCount int           `json:"failed_count"`
	Failures    []Failure     `json:"failures"`
	Duration    time.Duration `json:"duration_ns"`
	Error       string        `json:"error,omitempty"` // set when the run itself failed
}
