// Package history records the command lines a shell session evaluates.
// Only the typed text is persisted; job state never survives a restart.
package history

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Store appends command lines to the shared history database. Each shell
// instance gets its own session id so interleaved sessions stay separable.
type Store struct {
	db      *sql.DB
	session string
}

// Entry is one recorded command line.
type Entry struct {
	SessionID string
	Digest    string
	Line      string
	EnteredAt time.Time
}

// New creates a Store bound to a fresh session id.
func New(db *sql.DB) *Store {
	return &Store{
		db:      db,
		session: uuid.NewString(),
	}
}

// SessionID returns this shell instance's session identifier.
func (s *Store) SessionID() string {
	return s.session
}

// Append records one command line.
func (s *Store) Append(ctx context.Context, line string) error {
	if line == "" {
		return fmt.Errorf("history line is empty")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO command_history(id, session_id, digest, line, entered_at)
VALUES(?, ?, ?, ?, ?);
`, uuid.NewString(), s.session, Digest(line), line, now)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first, across all sessions.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT session_id, digest, line, entered_at
FROM command_history
ORDER BY entered_at DESC, rowid DESC
LIMIT ?;
`, n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var enteredAtS string
		if err := rows.Scan(&e.SessionID, &e.Digest, &e.Line, &enteredAtS); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, enteredAtS); err == nil {
			e.EnteredAt = t
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return out, nil
}

// Digest returns the hex BLAKE3 digest of a command line. Identical lines
// hash identically, which lets consumers collapse repeats.
func Digest(line string) string {
	sum := blake3.Sum256([]byte(line))
	return hex.EncodeToString(sum[:])
}
