package profile

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/candidate-insights/internal/types"
)

// DefaultConcurrency bounds AssembleAll when no limit is given.
const DefaultConcurrency = 8

// AssembleAll builds profiles for many candidates in parallel. Results keep
// the input order. benchmarkFor supplies each candidate's benchmark and may be
// called concurrently. Returns the context error if ctx is cancelled first.
func (a *Assembler) AssembleAll(
	ctx context.Context,
	candidates []types.Candidate,
	benchmarkFor func(types.Candidate) Benchmark,
	limit int,
) ([]*types.GlobalCandidateProfile, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	profiles := make([]*types.GlobalCandidateProfile, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range candidates {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			var bench Benchmark
			if benchmarkFor != nil {
				bench = benchmarkFor(candidates[i])
			}
			// each goroutine owns exactly one slot
			profiles[i] = a.Assemble(candidates[i], bench)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}
