package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/shelfscout/appraise-cli/internal/appraise"
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
CREATE TABLE IF NOT EXISTS appraisals (
	id         TEXT PRIMARY KEY,
	isbn       TEXT NOT NULL,
	title      TEXT NOT NULL,
	decision   TEXT NOT NULL,
	price      REAL NOT NULL,
	confidence REAL NOT NULL,
	model_id   TEXT NOT NULL,
	override   TEXT NOT NULL DEFAULT 'none',
	profile    TEXT NOT NULL DEFAULT 'balanced',
	result     TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_appraisals_isbn ON appraisals(isbn);
CREATE INDEX IF NOT EXISTS idx_appraisals_decision ON appraisals(decision);
CREATE INDEX IF NOT EXISTS idx_appraisals_created_at ON appraisals(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAppraisal(ctx context.Context, isbn, title string, result *appraise.Result) (*AppraisalRecord, error) {
	if result == nil {
		return nil, eris.New("sqlite: nil result")
	}

	rec := recordFromResult(isbn, title, result)

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO appraisals (id, isbn, title, decision, price, confidence, model_id, override, profile, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ISBN, rec.Title, string(rec.Decision), rec.Price, rec.Confidence,
		rec.ModelID, string(rec.Override), rec.Profile, string(resultJSON), rec.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert appraisal %s", isbn)
	}
	return rec, nil
}

func (s *SQLiteStore) GetAppraisal(ctx context.Context, id string) (*AppraisalRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, isbn, title, decision, price, confidence, model_id, override, profile, result, created_at
		 FROM appraisals WHERE id = ?`,
		id,
	)

	var rec AppraisalRecord
	var resultJSON sql.NullString
	err := row.Scan(&rec.ID, &rec.ISBN, &rec.Title, &rec.Decision, &rec.Price, &rec.Confidence,
		&rec.ModelID, &rec.Override, &rec.Profile, &resultJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("appraisal not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan appraisal")
	}
	if resultJSON.Valid {
		rec.Result = &appraise.Result{}
		if err := json.Unmarshal([]byte(resultJSON.String), rec.Result); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal result")
		}
	}
	return &rec, nil
}

func (s *SQLiteStore) ListAppraisals(ctx context.Context, filter Filter) ([]AppraisalRecord, error) {
	query := `SELECT id, isbn, title, decision, price, confidence, model_id, override, profile, created_at
	          FROM appraisals WHERE 1=1`
	var args []any

	if filter.ISBN != "" {
		query += ` AND isbn = ?`
		args = append(args, filter.ISBN)
	}
	if filter.Decision != "" {
		query += ` AND decision = ?`
		args = append(args, string(filter.Decision))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list appraisals")
	}
	defer rows.Close()

	var recs []AppraisalRecord
	for rows.Next() {
		var rec AppraisalRecord
		if err := rows.Scan(&rec.ID, &rec.ISBN, &rec.Title, &rec.Decision, &rec.Price,
			&rec.Confidence, &rec.ModelID, &rec.Override, &rec.Profile, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan appraisal")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list appraisals iterate")
}

// recordFromResult flattens the filterable columns out of a result.
func recordFromResult(isbn, title string, result *appraise.Result) *AppraisalRecord {
	return &AppraisalRecord{
		ID:         uuid.New().String(),
		ISBN:       isbn,
		Title:      title,
		Decision:   result.Decision.Decision,
		Price:      result.Prediction.Price,
		Confidence: result.Prediction.Confidence,
		ModelID:    result.Prediction.ModelID,
		Override:   result.Prediction.Override,
		Profile:    result.Decision.Inputs.Profile,
		Result:     result,
		CreatedAt:  time.Now().UTC(),
	}
}
