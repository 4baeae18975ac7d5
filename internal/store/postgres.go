package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/candidate-insights/internal/intake"
	"github.com/jonathan/candidate-insights/internal/types"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS candidates (
	seq          BIGSERIAL,
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	phone        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	member_since TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS assessment_records (
	candidate_id     TEXT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
	position         INTEGER NOT NULL,
	assessment_id    TEXT NOT NULL,
	assessment_title TEXT NOT NULL DEFAULT '',
	assessment_type  TEXT NOT NULL,
	score            DOUBLE PRECISION,
	status           TEXT NOT NULL,
	applied_at       TIMESTAMPTZ NOT NULL,
	completed_at     TIMESTAMPTZ,
	time_spent       INTEGER NOT NULL DEFAULT 0,
	breakdown        JSONB,
	PRIMARY KEY (candidate_id, position)
);

CREATE INDEX IF NOT EXISTS idx_assessment_records_type ON assessment_records(assessment_type);
`

// Postgres stores candidates in PostgreSQL through a pgx connection pool
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool, logger: logger}, nil
}

// Close closes the connection pool
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// EnsureSchema creates the candidate tables if they do not exist
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Save upserts candidates in one transaction. Each candidate's assessment
// records are replaced wholesale.
func (p *Postgres) Save(ctx context.Context, candidates []types.Candidate) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, c := range candidates {
		c = assignID(c)
		_, err := tx.Exec(ctx,
			`INSERT INTO candidates (id, name, email, phone, status, member_since)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO UPDATE SET
			   name = $2, email = $3, phone = $4, status = $5, member_since = $6, updated_at = NOW()`,
			c.ID, c.Name, c.Email, c.Phone, string(c.Status), c.MemberSince,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert candidate %s: %w", c.ID, err)
		}

		if _, err := tx.Exec(ctx, "DELETE FROM assessment_records WHERE candidate_id = $1", c.ID); err != nil {
			return fmt.Errorf("failed to clear records for candidate %s: %w", c.ID, err)
		}

		for i, r := range c.Assessments {
			var breakdown []byte
			if r.Breakdown != nil {
				breakdown, err = json.Marshal(r.Breakdown)
				if err != nil {
					return fmt.Errorf("failed to marshal breakdown for %s: %w", r.AssessmentID, err)
				}
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO assessment_records
				   (candidate_id, position, assessment_id, assessment_title, assessment_type,
				    score, status, applied_at, completed_at, time_spent, breakdown)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				c.ID, i, r.AssessmentID, r.AssessmentTitle, string(r.AssessmentType),
				r.Score.Ptr(), string(r.Status), r.AppliedAt, r.CompletedAt, r.TimeSpent, breakdown,
			)
			if err != nil {
				return fmt.Errorf("failed to insert record %s for candidate %s: %w", r.AssessmentID, c.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// List returns every candidate in insertion order
func (p *Postgres) List(ctx context.Context) ([]types.Candidate, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, name, email, phone, status, member_since FROM candidates ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	raws, err := scanCandidates(rows)
	if err != nil {
		return nil, err
	}

	records, err := p.loadRecords(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range raws {
		raws[i].Assessments = records[raws[i].ID]
	}

	return renormalize(raws, p.logger), nil
}

// Get retrieves a candidate by id, or nil when missing
func (p *Postgres) Get(ctx context.Context, id string) (*types.Candidate, error) {
	var raw intake.RawCandidate
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, status, member_since FROM candidates WHERE id = $1`,
		id,
	).Scan(&raw.ID, &raw.Name, &raw.Email, &raw.Phone, &raw.Status, &raw.MemberSince)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	records, err := p.loadRecords(ctx, id)
	if err != nil {
		return nil, err
	}
	raw.Assessments = records[id]

	candidates := renormalize([]intake.RawCandidate{raw}, p.logger)
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

func scanCandidates(rows pgx.Rows) ([]intake.RawCandidate, error) {
	defer rows.Close()

	var raws []intake.RawCandidate
	for rows.Next() {
		var raw intake.RawCandidate
		if err := rows.Scan(&raw.ID, &raw.Name, &raw.Email, &raw.Phone, &raw.Status, &raw.MemberSince); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	return raws, nil
}

// loadRecords fetches assessment records grouped by candidate id. An empty
// candidateID loads every candidate's records.
func (p *Postgres) loadRecords(ctx context.Context, candidateID string) (map[string][]intake.RawAssessment, error) {
	const cols = `SELECT candidate_id, assessment_id, assessment_title, assessment_type,
	                     score, status, applied_at, completed_at, time_spent, breakdown
	              FROM assessment_records`

	var rows pgx.Rows
	var err error
	if candidateID == "" {
		rows, err = p.pool.Query(ctx, cols+` ORDER BY candidate_id, position`)
	} else {
		rows, err = p.pool.Query(ctx, cols+` WHERE candidate_id = $1 ORDER BY position`, candidateID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list assessment records: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]intake.RawAssessment)
	for rows.Next() {
		var owner string
		var ra intake.RawAssessment
		var breakdown []byte
		if err := rows.Scan(&owner, &ra.AssessmentID, &ra.AssessmentTitle, &ra.AssessmentType,
			&ra.Score, &ra.Status, &ra.AppliedAt, &ra.CompletedAt, &ra.TimeSpent, &breakdown); err != nil {
			return nil, fmt.Errorf("failed to scan assessment record: %w", err)
		}
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &ra.Breakdown); err != nil {
				return nil, fmt.Errorf("failed to unmarshal breakdown for %s: %w", ra.AssessmentID, err)
			}
		}
		out[owner] = append(out[owner], ra)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessment records: %w", err)
	}
	return out, nil
}
