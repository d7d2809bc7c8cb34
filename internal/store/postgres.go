package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/shelfscout/appraise-cli/internal/appraise"
)

// pgPool is the subset of pgxpool.Pool the store uses, satisfied by
// pgxmock in tests.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    pgPool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
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
CREATE TABLE IF NOT EXISTS appraisals (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	isbn       TEXT NOT NULL,
	title      TEXT NOT NULL,
	decision   TEXT NOT NULL,
	price      DOUBLE PRECISION NOT NULL,
	confidence DOUBLE PRECISION NOT NULL,
	model_id   TEXT NOT NULL,
	override   TEXT NOT NULL DEFAULT 'none',
	profile    TEXT NOT NULL DEFAULT 'balanced',
	result     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_appraisals_isbn ON appraisals(isbn);
CREATE INDEX IF NOT EXISTS idx_appraisals_decision ON appraisals(decision);
CREATE INDEX IF NOT EXISTS idx_appraisals_created_at ON appraisals(created_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

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

func (s *PostgresStore) SaveAppraisal(ctx context.Context, isbn, title string, result *appraise.Result) (*AppraisalRecord, error) {
	if result == nil {
		return nil, eris.New("postgres: nil result")
	}

	rec := recordFromResult(isbn, title, result)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO appraisals (id, isbn, title, decision, price, confidence, model_id, override, profile, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.ISBN, rec.Title, string(rec.Decision), rec.Price, rec.Confidence,
		rec.ModelID, string(rec.Override), rec.Profile, resultJSON, rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert appraisal %s", isbn)
	}
	return rec, nil
}

func (s *PostgresStore) GetAppraisal(ctx context.Context, id string) (*AppraisalRecord, error) {
	var rec AppraisalRecord
	var resultJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, isbn, title, decision, price, confidence, model_id, override, profile, result, created_at
		 FROM appraisals WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.ISBN, &rec.Title, &rec.Decision, &rec.Price, &rec.Confidence,
		&rec.ModelID, &rec.Override, &rec.Profile, &resultJSON, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("appraisal not found: %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get appraisal %s", id)
	}

	if resultJSON != nil {
		rec.Result = &appraise.Result{}
		if err := json.Unmarshal(resultJSON, rec.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
	}
	return &rec, nil
}

func (s *PostgresStore) ListAppraisals(ctx context.Context, filter Filter) ([]AppraisalRecord, error) {
	query := `SELECT id, isbn, title, decision, price, confidence, model_id, override, profile, created_at
	          FROM appraisals WHERE true`
	args := []any{}
	argIdx := 1

	if filter.ISBN != "" {
		query += fmt.Sprintf(` AND isbn = $%d`, argIdx)
		args = append(args, filter.ISBN)
		argIdx++
	}
	if filter.Decision != "" {
		query += fmt.Sprintf(` AND decision = $%d`, argIdx)
		args = append(args, string(filter.Decision))
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list appraisals")
	}
	defer rows.Close()

	var recs []AppraisalRecord
	for rows.Next() {
		var rec AppraisalRecord
		if err := rows.Scan(&rec.ID, &rec.ISBN, &rec.Title, &rec.Decision, &rec.Price,
			&rec.Confidence, &rec.ModelID, &rec.Override, &rec.Profile, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan appraisal")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list appraisals iterate")
}
