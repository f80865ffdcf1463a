package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/challenge-workflows/eval-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS evaluations (
	id               TEXT PRIMARY KEY,
	kind             TEXT NOT NULL,
	predictions_file TEXT NOT NULL,
	status           TEXT NOT NULL,
	errors           TEXT NOT NULL DEFAULT '',
	scores           TEXT,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_evaluations_kind ON evaluations(kind);
CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordEvaluation(ctx context.Context, ev *model.Evaluation) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	scoresJSON, err := marshalScores(ev.Scores)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, kind, predictions_file, status, errors, scores, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Kind), ev.PredictionsFile, ev.Status, ev.Errors, scoresJSON, ev.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert evaluation")
	}
	return nil
}

func (s *SQLiteStore) ListEvaluations(ctx context.Context, filter Filter) ([]model.Evaluation, error) {
	query := `SELECT id, kind, predictions_file, status, errors, scores, created_at FROM evaluations WHERE 1=1`
	var args []any

	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list evaluations")
	}
	defer rows.Close() //nolint:errcheck

	var evals []model.Evaluation
	for rows.Next() {
		var ev model.Evaluation
		var kind string
		var scoresJSON sql.NullString
		if err := rows.Scan(&ev.ID, &kind, &ev.PredictionsFile, &ev.Status, &ev.Errors, &scoresJSON, &ev.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan evaluation")
		}
		ev.Kind = model.EvaluationKind(kind)
		if ev.Scores, err = unmarshalScores(scoresJSON); err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	return evals, eris.Wrap(rows.Err(), "sqlite: iterate evaluations")
}

func marshalScores(scores map[string]float64) (any, error) {
	if len(scores) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return nil, eris.Wrap(err, "store: marshal scores")
	}
	return string(data), nil
}

func unmarshalScores(raw sql.NullString) (map[string]float64, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var scores map[string]float64
	if err := json.Unmarshal([]byte(raw.String), &scores); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal scores")
	}
	return scores, nil
}
