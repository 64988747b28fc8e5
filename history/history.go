// Package history persists per-document compatibility scores between runs so
// the CLI can show score deltas against the previous check.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"emc/compat"
	"emc/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	framework  TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_document ON runs(document, created_at);
CREATE TABLE IF NOT EXISTS scores (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	engine   TEXT NOT NULL,
	score    INTEGER NOT NULL,
	errors   INTEGER NOT NULL,
	warnings INTEGER NOT NULL,
	info     INTEGER NOT NULL,
	PRIMARY KEY (run_id, engine)
);
`

// Run is a single recorded check of a document.
type Run struct {
	ID        string
	Document  string
	Framework compat.Framework
	CreatedAt time.Time
	Scores    map[engine.ID]compat.EngineScore
}

// Store keeps check history in a SQLite database.
type Store struct {
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens (creating if necessary) the history database at path.
func Open(path string, log *zap.Logger) (*Store, error) {

	if log == nil {
		log = zap.NewNop()
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare history schema: %w", err)
	}

	return &Store{conn: conn, log: log.Named("history")}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Record stores scores for a document and returns the new run id.
func (s *Store) Record(document string, fw compat.Framework, scores map[engine.ID]compat.EngineScore) (string, error) {

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	release := sqlitex.Transaction(s.conn)
	var err error
	defer release(&err)

	err = sqlitex.Execute(s.conn, `INSERT INTO runs (id, document, framework, created_at) VALUES (?, ?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{id, document, string(fw), now}})
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	for eid, es := range scores {
		err = sqlitex.Execute(s.conn, `INSERT INTO scores (run_id, engine, score, errors, warnings, info) VALUES (?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{id, string(eid), es.Score, es.Errors, es.Warnings, es.Info}})
		if err != nil {
			return "", fmt.Errorf("record score for %s: %w", eid, err)
		}
	}

	s.log.Debug("Recorded run", zap.String("id", id), zap.String("document", document), zap.Int("engines", len(scores)))
	return id, nil
}

// Last returns the most recent recorded run for a document, or nil when the
// document has never been checked.
func (s *Store) Last(document string) (*Run, error) {

	var run *Run
	err := sqlitex.Execute(s.conn, `SELECT id, framework, created_at FROM runs WHERE document = ? ORDER BY created_at DESC, id LIMIT 1`,
		&sqlitex.ExecOptions{
			Args: []any{document},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				at, err := time.Parse(time.RFC3339, stmt.ColumnText(2))
				if err != nil {
					return fmt.Errorf("parse run timestamp: %w", err)
				}
				run = &Run{
					ID:        stmt.ColumnText(0),
					Document:  document,
					Framework: compat.Framework(stmt.ColumnText(1)),
					CreatedAt: at,
					Scores:    make(map[engine.ID]compat.EngineScore),
				}
				return nil
			}})
	if err != nil {
		return nil, fmt.Errorf("query last run: %w", err)
	}
	if run == nil {
		return nil, nil
	}

	err = sqlitex.Execute(s.conn, `SELECT engine, score, errors, warnings, info FROM scores WHERE run_id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{run.ID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				run.Scores[engine.ID(stmt.ColumnText(0))] = compat.EngineScore{
					Score:    stmt.ColumnInt(1),
					Errors:   stmt.ColumnInt(2),
					Warnings: stmt.ColumnInt(3),
					Info:     stmt.ColumnInt(4),
				}
				return nil
			}})
	if err != nil {
		return nil, fmt.Errorf("query run scores: %w", err)
	}
	return run, nil
}

// Delta returns per-engine score change of current against previous run.
// Engines absent from the previous run are omitted.
func Delta(prev *Run, current map[engine.ID]compat.EngineScore) map[engine.ID]int {
	if prev == nil {
		return nil
	}
	out := make(map[engine.ID]int, len(current))
	for eid, es := range current {
		if old, ok := prev.Scores[eid]; ok {
			out[eid] = es.Score - old.Score
		}
	}
	return out
}
