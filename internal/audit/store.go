package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/intentlang/internal/db"
)

// Store persists index run entries.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

const columns = `id, timestamp, source, agent, snapshot_id, fingerprint, changed,
	pair_count, failed_count, failures, duration_ms, error`

// Log inserts a new entry. If entry.ID is empty a UUID is generated and if
// the timestamp is zero the current time is used. Changed is computed from
// the fingerprint of the latest successful run.
func (s *Store) Log(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Failures == nil {
		entry.Failures = []Failure{}
	}

	if entry.Error == "" {
		prev, err := s.latestFingerprint(ctx)
		if err != nil {
			return err
		}
		entry.Changed = prev != entry.Fingerprint
	}

	failures, err := json.Marshal(entry.Failures)
	if err != nil {
		return fmt.Errorf("marshalling failures: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_entries (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp,
		string(entry.Source),
		entry.Agent,
		entry.SnapshotID,
		entry.Fingerprint,
		entry.Changed,
		entry.PairCount,
		entry.FailedCount,
		string(failures),
		entry.Duration.Milliseconds(),
		entry.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}

func (s *Store) latestFingerprint(ctx context.Context) (string, error) {
	var fp string
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM audit_entries WHERE error = ''
		 ORDER BY timestamp DESC, rowid DESC LIMIT 1`,
	).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading previous run: %w", err)
	}
	return fp, nil
}

// GetByID retrieves a single entry, or nil if there is none.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM audit_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// QueryFilter controls which entries are returned by Query.
type QueryFilter struct {
	Source     Source
	Since      *time.Time
	Until      *time.Time
	FailedOnly bool // runs that failed or had failing pairs
	Limit      int
	Offset     int
}

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(filter.Source))
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC())
	}
	if filter.FailedOnly {
		clauses = append(clauses, "(failed_count > 0 OR error != '')")
	}

	query := "SELECT " + columns + " FROM audit_entries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM audit_entries WHERE timestamp < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting old audit entries: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e          Entry
		source     string
		failures   string
		durationMS int64
	)
	err := sc.Scan(
		&e.ID, &e.Timestamp, &source, &e.Agent, &e.SnapshotID, &e.Fingerprint, &e.Changed,
		&e.PairCount, &e.FailedCount, &failures, &durationMS, &e.Error,
	)
	if err != nil {
		return nil, err
	}
	e.Source = Source(source)
	e.Duration = time.Duration(durationMS) * time.Millisecond
	if err := json.Unmarshal([]byte(failures), &e.Failures); err != nil {
		return nil, fmt.Errorf("decoding failures of %s: %w", e.ID, err)
	}
	return &e, nil
}
