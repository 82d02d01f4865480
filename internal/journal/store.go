package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/pagenav/internal/db"
)

// Store persists journal entries in SQLite.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Record inserts a new entry. A missing ID gets a UUID and a zero At gets
// the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if !e.Kind.Valid() {
		return fmt.Errorf("journal: unknown kind %q", e.Kind)
	}
	if e.SessionID == "" {
		return fmt.Errorf("journal: entry has no session id")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, at, session_id, document, kind, section_id, ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.At.UTC().Format(time.RFC3339Nano),
		e.SessionID,
		e.Document,
		string(e.Kind),
		e.SectionID,
		e.Ratio,
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}
	return nil
}

// GetByID retrieves a single entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+columns+" FROM journal_entries WHERE id = ?", id)
	return scanInto(row)
}

// QueryFilter controls which entries Query returns.
type QueryFilter struct {
	SessionID string
	Document  string
	Kind      Kind
	Since     *time.Time
	Limit     int
	Offset    int
}

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Document != "" {
		clauses = append(clauses, "document = ?")
		args = append(args, filter.Document)
	}
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Since != nil {
		clauses = append(clauses, "at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}

	query := "SELECT " + columns + " FROM journal_entries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY seq DESC"

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
		return nil, fmt.Errorf("querying journal entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes entries older than the given time and returns how
// many were deleted.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM journal_entries WHERE at < ?",
		before.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old journal entries: %w", err)
	}
	return res.RowsAffected()
}

const columns = "id, at, session_id, document, kind, section_id, ratio"

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

var _ scanner = (*sql.Row)(nil)

func scanInto(sc scanner) (*Entry, error) {
	var (
		e        Entry
		at, kind string
	)
	if err := sc.Scan(&e.ID, &at, &e.SessionID, &e.Document, &kind, &e.SectionID, &e.Ratio); err != nil {
		return nil, err
	}
	e.Kind = Kind(kind)
	if t, err := time.Parse(time.RFC3339Nano, at); err == nil {
		e.At = t
	}
	return &e, nil
}
