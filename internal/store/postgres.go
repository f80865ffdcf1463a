package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/challenge-workflows/eval-cli/internal/db"
	"github.com/challenge-workflows/eval-cli/internal/model"
)

// PostgresStore implements Store using pgxpool. It exists for shared
// infrastructure where several evaluation hosts report into one database.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS evaluations (
	id               TEXT PRIMARY KEY,
	kind             TEXT NOT NULL,
	predictions_file TEXT NOT NULL,
	status           TEXT NOT NULL,
	errors           TEXT NOT NULL DEFAULT '',
	scores           JSONB,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_evaluations_kind ON evaluations(kind);
CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) RecordEvaluation(ctx context.Context, ev *model.Evaluation) error {
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

	_, err = s.pool.Exec(ctx,
		`INSERT INTO evaluations (id, kind, predictions_file, status, errors, scores, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, string(ev.Kind), ev.PredictionsFile, ev.Status, ev.Errors, scoresJSON, ev.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: insert evaluation")
	}
	return nil
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, filter Filter) ([]model.Evaluation, error) {
	query := `SELECT id, kind, predictions_file, status, errors, scores::text, created_at FROM evaluations WHERE 1=1`
	var args []any

	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		query += ` AND kind = $1`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		if filter.Kind != "" {
			query += ` LIMIT $2`
		} else {
			query += ` LIMIT $1`
		}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list evaluations")
	}
	defer rows.Close()

	var evals []model.Evaluation
	for rows.Next() {
		var ev model.Evaluation
		var kind string
		var scoresJSON sql.NullString
		if err := rows.Scan(&ev.ID, &kind, &ev.PredictionsFile, &ev.Status, &ev.Errors, &scoresJSON, &ev.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan evaluation")
		}
		ev.Kind = model.EvaluationKind(kind)
		if ev.Scores, err = unmarshalScores(scoresJSON); err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	return evals, eris.Wrap(rows.Err(), "postgres: iterate evaluations")
}
