package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/candidate-insights/internal/metrics"
	"github.com/jonathan/candidate-insights/internal/profile"
	"github.com/jonathan/candidate-insights/internal/ranking"
	"github.com/jonathan/candidate-insights/internal/search"
	"github.com/jonathan/candidate-insights/internal/types"
)

// candidateSummary is one row of a candidate listing
type candidateSummary struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	Status           types.CandidateStatus `json:"status"`
	MemberSince      time.Time             `json:"member_since"`
	OverallScore     float64               `json:"overall_score"`
	ScoreBand        types.ScoreBand       `json:"score_band"`
	TotalAssessments int                   `json:"total_assessments"`
	CompletionRate   float64               `json:"completion_rate"`
}

func summarize(c types.Candidate) candidateSummary {
	overall := metrics.CalculateAverageScore(c.Assessments)
	return candidateSummary{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		Status:           c.Status,
		MemberSince:      c.MemberSince,
		OverallScore:     overall,
		ScoreBand:        metrics.ScoreLabel(overall),
		TotalAssessments: len(c.Assessments),
		CompletionRate:   metrics.CompletionRate(c.Assessments),
	}
}

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// parseQueryScore parses an optional average in [0,100]. Absent yields nil.
func parseQueryScore(r *http.Request, key string) (*float64, error) {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return nil, nil
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val < 0 || val > 100 {
		return nil, &ErrValidation{Field: key, Message: "must be a number between 0 and 100"}
	}
	return &val, nil
}

// queryValues collects a multi-value parameter given repeated, comma-separated, or both
func queryValues(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// parseSearchQuery reads the facet parameters shared by /candidates and /profiles
func parseSearchQuery(r *http.Request) (types.Query, error) {
	params := r.URL.Query()
	q := types.Query{
		Text:            params.Get("q"),
		Statuses:        queryValues(r, "status"),
		ScoreRange:      params.Get("score_range"),
		AssessmentTypes: queryValues(r, "type"),
		DateRange:       params.Get("date_range"),
		Sort:            params.Get("sort"),
	}
	if err := q.Validate(); err != nil {
		return q, &ErrValidation{Field: "query", Message: err.Error()}
	}
	return q, nil
}

// paginate returns the [offset, offset+limit) window of n items
func paginate(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}

// handleFacets lists the values each search facet accepts
func (s *Server) handleFacets(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, search.Facets())
}

// handleListCandidates runs a faceted search and returns one page of summaries
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	limit := parseQueryInt(r, "limit", 50, 200)
	offset := parseQueryInt(r, "offset", 0, 0)

	results, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	start, end := paginate(len(results), limit, offset)
	page := make([]candidateSummary, 0, end-start)
	for _, c := range results[start:end] {
		page = append(page, summarize(c))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidates": page,
		"total":      len(results),
		"limit":      limit,
		"offset":     offset,
	})
}

// getCandidate loads a candidate by path id
func (s *Server) getCandidate(r *http.Request) (*types.Candidate, error) {
	id := r.PathValue("id")
	if id == "" {
		return nil, &ErrValidation{Field: "id", Message: "candidate id is required"}
	}
	c, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &ErrCandidateNotFound{ID: id}
	}
	return c, nil
}

// handleGetCandidate returns the normalized candidate with its assessment history
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := s.getCandidate(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

// handleGetCandidateMetrics returns the aggregate metrics for one candidate
func (s *Server) handleGetCandidateMetrics(w http.ResponseWriter, r *http.Request) {
	c, err := s.getCandidate(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, metrics.SummarizeWithEpsilon(c.Assessments, s.assembler.TrendEpsilon))
}

// population is the ranked, scored view of the whole store
type population struct {
	ranked  []types.RankedCandidate
	average float64
}

func (s *Server) loadPopulation(ctx context.Context) (population, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return population{}, err
	}
	return population{
		ranked:  ranking.RankCandidates(all),
		average: ranking.PlatformAverage(all),
	}, nil
}

// benchmarkOptions are the per-request overrides for profile benchmarking
type benchmarkOptions struct {
	platformAverage *float64
	cohortAverage   *float64
	cohortLabel     string
}

func parseBenchmarkOptions(r *http.Request) (benchmarkOptions, error) {
	var opts benchmarkOptions
	var err error
	if opts.platformAverage, err = parseQueryScore(r, "platform_average"); err != nil {
		return opts, err
	}
	if opts.cohortAverage, err = parseQueryScore(r, "cohort_average"); err != nil {
		return opts, err
	}
	opts.cohortLabel = r.URL.Query().Get("cohort_label")
	if opts.cohortLabel != "" && opts.cohortAverage == nil {
		return opts, &ErrValidation{Field: "cohort_label", Message: "requires cohort_average"}
	}
	return opts, nil
}

// benchmark resolves the platform average (request, then config, then
// population) and looks up the candidate's rank
func (s *Server) benchmark(pop population, opts benchmarkOptions, candidateID string) profile.Benchmark {
	b := profile.Benchmark{
		PlatformAverage: pop.average,
		CohortLabel:     opts.cohortLabel,
		CohortAverage:   opts.cohortAverage,
		PopulationSize:  len(pop.ranked),
	}
	switch {
	case opts.platformAverage != nil:
		b.PlatformAverage = *opts.platformAverage
	case s.platformAverage > 0:
		b.PlatformAverage = s.platformAverage
	}
	if entry, ok := ranking.Lookup(pop.ranked, candidateID); ok {
		pct := entry.Percentile
		b.Percentile = &pct
		b.Rank = entry.Rank
	}
	return b
}

// handleGetCandidateProfile assembles the global profile for one candidate
func (s *Server) handleGetCandidateProfile(w http.ResponseWriter, r *http.Request) {
	opts, err := parseBenchmarkOptions(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	c, err := s.getCandidate(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	pop, err := s.loadPopulation(r.Context())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.assembler.Assemble(*c, s.benchmark(pop, opts, c.ID)))
}

// handleListProfiles assembles profiles for one page of search results
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	opts, err := parseBenchmarkOptions(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	limit := parseQueryInt(r, "limit", 20, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	results, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	pop, err := s.loadPopulation(r.Context())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	start, end := paginate(len(results), limit, offset)
	profiles, err := s.assembler.AssembleAll(r.Context(), results[start:end], func(c types.Candidate) profile.Benchmark {
		return s.benchmark(pop, opts, c.ID)
	}, s.concurrency)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"profiles": profiles,
		"total":    len(results),
		"limit":    limit,
		"offset":   offset,
	})
}

// handleRankings lists the scored population best first
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 500)

	pop, err := s.loadPopulation(r.Context())
	if err != nil {
		s.failure(w, r, err)
		return
	}

	_, end := paginate(len(pop.ranked), limit, 0)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"rankings":         pop.ranked[:end],
		"population_size":  len(pop.ranked),
		"platform_average": pop.average,
	})
}
