package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS score_history (
	id               UUID PRIMARY KEY,
	resume_id        TEXT NOT NULL DEFAULT '',
	job_title        TEXT NOT NULL DEFAULT '',
	company          TEXT NOT NULL DEFAULT '',
	job_url          TEXT NOT NULL DEFAULT '',
	score            INTEGER NOT NULL,
	strategy         TEXT NOT NULL,
	matched_keywords JSONB NOT NULL,
	missing_keywords JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DB is the PostgreSQL score-history store.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool and creates the schema if needed.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// SaveScore inserts a score record.
func (db *DB) SaveScore(ctx context.Context, rec ScoreRecord) error {
	rec, matched, missing, err := prepare(rec)
	if err != nil {
		return err
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO score_history
		 (id, resume_id, job_title, company, job_url, score, strategy, matched_keywords, missing_keywords, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.ResumeID, rec.JobTitle, rec.Company, rec.JobURL,
		rec.Score, rec.Strategy, matched, missing, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	return nil
}

// ListScores returns the most recent records, newest first.
func (db *DB) ListScores(ctx context.Context, limit int) ([]ScoreRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, job_title, company, job_url, score, strategy,
		        matched_keywords, missing_keywords, created_at
		 FROM score_history ORDER BY created_at DESC LIMIT $1`,
		limitOrDefault(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	records := []ScoreRecord{}
	for rows.Next() {
		var rec ScoreRecord
		var matched, missing []byte
		if err := rows.Scan(&rec.ID, &rec.ResumeID, &rec.JobTitle, &rec.Company, &rec.JobURL,
			&rec.Score, &rec.Strategy, &matched, &missing, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		if err := decodeKeywords(&rec, matched, missing); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return records, nil
}
