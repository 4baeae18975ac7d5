// Package store provides the candidate collaborators the search service,
// profile assembly and HTTP server read from: an in-memory store, PostgreSQL
// and SQLite.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-insights/internal/intake"
	"github.com/jonathan/candidate-insights/internal/types"
)

// CandidateStore lists and fetches normalized candidates
type CandidateStore interface {
	List(ctx context.Context) ([]types.Candidate, error)
	// Get returns nil, nil when the candidate does not exist.
	Get(ctx context.Context, id string) (*types.Candidate, error)
}

// Writer persists normalized candidates, replacing existing ones by id
type Writer interface {
	Save(ctx context.Context, candidates []types.Candidate) error
}

// Store is a readable, writable, closable backend
type Store interface {
	CandidateStore
	Writer
	Close() error
}

// Open picks a backend from the URL:
//
//	postgres://... or postgresql://...   PostgreSQL
//	sqlite://path or *.db / *.sqlite     SQLite
//	file://path.json or *.json           in-memory, loaded from a collection file
func Open(ctx context.Context, url string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		pg, err := Connect(ctx, url, logger)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, err
		}
		return pg, nil

	case strings.HasPrefix(url, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(url, "sqlite://"), logger)

	case strings.HasSuffix(url, ".db"), strings.HasSuffix(url, ".sqlite"):
		return OpenSQLite(url, logger)

	case strings.HasPrefix(url, "file://"), strings.HasSuffix(url, ".json"):
		path := strings.TrimPrefix(url, "file://")
		candidates, report, err := intake.LoadCandidates(path, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded candidate collection",
			slog.String("path", path),
			slog.Int("accepted", report.AcceptedCandidates),
			slog.Int("rejected", report.RejectedCandidates),
			slog.Int("skipped_records", report.SkippedRecords))
		return NewMemory(candidates), nil

	default:
		return nil, fmt.Errorf("unsupported store url %q", url)
	}
}

// renormalize runs rows read back from a database through the intake
// normalizer so stored data obeys the same invariants as freshly loaded data
func renormalize(raws []intake.RawCandidate, logger *slog.Logger) []types.Candidate {
	normalizer := intake.NewNormalizer(logger)
	candidates := make([]types.Candidate, 0, len(raws))
	for _, raw := range raws {
		c, _, ok := normalizer.NormalizeCandidate(raw)
		if !ok {
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates
}

// assignID gives a candidate without an id a random UUID
func assignID(c types.Candidate) types.Candidate {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return c
}
