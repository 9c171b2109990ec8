package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/intentlang/internal/agent"
	"github.com/ziadkadry99/intentlang/internal/db"
	"github.com/ziadkadry99/intentlang/internal/language"
)

// Store persists loaded language data so it can be served without parsing
// the language files again.
type Store struct {
	db *db.DB
}

// NewStore creates a new catalog store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

const latestSnapshot = `(SELECT id FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1)`

// Replace writes report as a new snapshot in a single transaction and drops
// every older snapshot.
func (s *Store) Replace(ctx context.Context, report *agent.LoadReport, fingerprint string) (*Snapshot, error) {
	langs := make([]string, len(report.Languages))
	for i, l := range report.Languages {
		langs[i] = string(l)
	}
	langsJSON, err := json.Marshal(langs)
	if err != nil {
		return nil, fmt.Errorf("encoding languages: %w", err)
	}

	intents := make([]intentRow, len(report.Intents))
	for i, res := range report.Intents {
		intents[i] = encodeIntent(res)
	}
	entities := make([]entityRow, len(report.Entities))
	for i, res := range report.Entities {
		entities[i] = encodeEntity(res)
	}

	snap := &Snapshot{
		ID:          uuid.New().String(),
		Agent:       report.Agent,
		Fingerprint: fingerprint,
		Languages:   langs,
		IntentCount: len(report.Intents),
		CreatedAt:   time.Now().UTC(),
	}
	for _, row := range intents {
		if row.status == StatusFailed {
			snap.FailedCount++
		}
	}
	for _, row := range entities {
		if row.status == StatusFailed {
			snap.FailedCount++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"intent_language", "entity_language", "snapshots"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return nil, fmt.Errorf("dropping old snapshots: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, agent, fingerprint, languages, intent_count, failed_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Agent, snap.Fingerprint, string(langsJSON), snap.IntentCount, snap.FailedCount, snap.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("inserting snapshot: %w", err)
	}

	for _, row := range intents {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO intent_language (snapshot_id, intent, language, status, error, example_count, data)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snap.ID, row.intent, row.language, row.status, row.err, row.examples, row.data,
		); err != nil {
			return nil, fmt.Errorf("inserting %s/%s: %w", row.language, row.intent, err)
		}
	}

	for _, row := range entities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO entity_language (snapshot_id, entity, language, status, error, entries)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			snap.ID, row.entity, row.language, row.status, row.err, row.entries,
		); err != nil {
			return nil, fmt.Errorf("inserting entity %s/%s: %w", row.language, row.entity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return snap, nil
}

type intentRow struct {
	intent, language string
	status           Status
	err, data        string
	examples         int
}

// encodeIntent turns one load result into its row. Data that cannot be
// encoded marks the pair failed without affecting the others.
func encodeIntent(res agent.IntentResult) intentRow {
	row := intentRow{intent: res.Intent, language: string(res.Language), status: StatusLoaded, data: "{}"}
	if res.Err != nil {
		row.status, row.err = StatusFailed, res.Err.Error()
		return row
	}
	if res.Data == nil {
		return row
	}
	data, err := json.Marshal(res.Data)
	if err != nil {
		row.status, row.err = StatusFailed, fmt.Sprintf("encoding language data: %v", err)
		return row
	}
	row.data, row.examples = string(data), len(res.Data.ExampleUtterances)
	return row
}

type entityRow struct {
	entity, language string
	status           Status
	err, entries     string
}

func encodeEntity(res agent.EntityResult) entityRow {
	row := entityRow{entity: res.Entity, language: string(res.Language), status: StatusLoaded, entries: "[]"}
	if res.Err != nil {
		row.status, row.err = StatusFailed, res.Err.Error()
		return row
	}
	if res.Entries == nil {
		return row
	}
	entries, err := json.Marshal(res.Entries)
	if err != nil {
		row.status, row.err = StatusFailed, fmt.Sprintf("encoding entity entries: %v", err)
		return row
	}
	row.entries = string(entries)
	return row
}

// LatestSnapshot returns the current snapshot, or nil if nothing was
// written yet.
func (s *Store) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	var langs string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, agent, fingerprint, languages, intent_count, failed_count, created_at
		 FROM snapshots WHERE id = `+latestSnapshot,
	).Scan(&snap.ID, &snap.Agent, &snap.Fingerprint, &langs, &snap.IntentCount, &snap.FailedCount, &snap.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(langs), &snap.Languages); err != nil {
		return nil, fmt.Errorf("decoding snapshot languages: %w", err)
	}
	return &snap, nil
}

// Get returns the language data of intent in lang from the current
// snapshot, or nil if there is none.
func (s *Store) Get(ctx context.Context, intent, lang string) (*IntentEntry, error) {
	var e IntentEntry
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot_id, intent, language, status, error, example_count, data
		 FROM intent_language WHERE snapshot_id = `+latestSnapshot+` AND intent = ? AND language = ?`,
		intent, lang,
	).Scan(&e.SnapshotID, &e.Intent, &e.Language, &e.Status, &e.Error, &e.ExampleCount, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s/%s: %w", lang, intent, err)
	}
	if e.Status == StatusLoaded {
		var d language.IntentLanguageData
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, fmt.Errorf("decoding %s/%s: %w", lang, intent, err)
		}
		e.Data = &d
	}
	return &e, nil
}

// List returns the entries of the current snapshot matching filter, without
// their language data.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]IntentEntry, error) {
	query := `SELECT snapshot_id, intent, language, status, error, example_count
		 FROM intent_language WHERE snapshot_id = ` + latestSnapshot
	args := []interface{}{}

	if filter.Intent != "" {
		query += " AND intent = ?"
		args = append(args, filter.Intent)
	}
	if filter.Language != "" {
		query += " AND language = ?"
		args = append(args, filter.Language)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}

	query += " ORDER BY intent ASC, language ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing intents: %w", err)
	}
	defer rows.Close()

	var entries []IntentEntry
	for rows.Next() {
		var e IntentEntry
		if err := rows.Scan(&e.SnapshotID, &e.Intent, &e.Language, &e.Status, &e.Error, &e.ExampleCount); err != nil {
			return nil, fmt.Errorf("scanning intent: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Entities returns the entries of a custom entity in lang from the current
// snapshot, or nil if there is none.
func (s *Store) Entities(ctx context.Context, entity, lang string) (*EntityEntry, error) {
	var e EntityEntry
	var entries string
	err := s.db.QueryRowContext(ctx,
		`SELECT snapshot_id, entity, language, status, error, entries
		 FROM entity_language WHERE snapshot_id = `+latestSnapshot+` AND entity = ? AND language = ?`,
		entity, lang,
	).Scan(&e.SnapshotID, &e.Entity, &e.Language, &e.Status, &e.Error, &entries)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting entity %s/%s: %w", lang, entity, err)
	}
	if err := json.Unmarshal([]byte(entries), &e.Entries); err != nil {
		return nil, fmt.Errorf("decoding entity %s/%s: %w", lang, entity, err)
	}
	if e.Entries == nil {
		e.Entries = []language.EntityEntry{}
	}
	return &e, nil
}
