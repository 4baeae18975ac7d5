package intake

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/candidate-insights/internal/types"
)

// validate is safe for concurrent use and caches struct metadata
var validate = validator.New()

// Report summarizes the outcome of normalizing a collection
type Report struct {
	AcceptedCandidates int     `json:"accepted_candidates"`
	RejectedCandidates int     `json:"rejected_candidates"`
	AcceptedRecords    int     `json:"accepted_records"`
	SkippedRecords     int     `json:"skipped_records"`
	Errors             []error `json:"-"`
}

// Normalizer turns raw candidates into validated ones, logging every exclusion
type Normalizer struct {
	Logger *slog.Logger
}

// NewNormalizer creates a Normalizer. A nil logger uses slog.Default().
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{Logger: logger}
}

// NormalizeRecord validates a raw assessment attempt and converts it into a record.
// Score and CompletedAt must be present exactly when the status is terminal; a
// missing score is never turned into zero. The breakdown of a non-terminal
// attempt is dropped because its sub-scores are not known yet.
func NormalizeRecord(raw RawAssessment) (types.AssessmentRecord, error) {
	fail := func(msg string, cause error) (types.AssessmentRecord, error) {
		return types.AssessmentRecord{}, &NormalizationError{AssessmentID: raw.AssessmentID, Message: msg, Cause: cause}
	}

	if err := validate.Struct(raw); err != nil {
		return fail("invalid field values", err)
	}
	if raw.timeErr != nil {
		return fail("invalid timestamp", raw.timeErr)
	}

	status := types.AssessmentStatus(strings.ToLower(strings.TrimSpace(raw.Status)))
	if !status.Valid() {
		return fail(fmt.Sprintf("unknown status '%s'", raw.Status), nil)
	}

	assessmentType, ok := types.ParseAssessmentType(raw.AssessmentType)
	if !ok {
		return fail(fmt.Sprintf("unknown assessment type '%s'", raw.AssessmentType), nil)
	}

	if raw.AppliedAt.IsZero() {
		return fail("applied_at is required", nil)
	}

	terminal := status.IsTerminal()
	switch {
	case terminal && raw.Score == nil:
		return fail(fmt.Sprintf("status '%s' requires a score", status), nil)
	case !terminal && raw.Score != nil:
		return fail(fmt.Sprintf("status '%s' must not carry a score", status), nil)
	case terminal && raw.CompletedAt == nil:
		return fail(fmt.Sprintf("status '%s' requires completed_at", status), nil)
	case !terminal && raw.CompletedAt != nil:
		return fail(fmt.Sprintf("status '%s' must not carry completed_at", status), nil)
	}

	record := types.AssessmentRecord{
		AssessmentID:    strings.TrimSpace(raw.AssessmentID),
		AssessmentTitle: strings.TrimSpace(raw.AssessmentTitle),
		AssessmentType:  assessmentType,
		Score:           types.Unscored(),
		Status:          status,
		AppliedAt:       raw.AppliedAt,
		TimeSpent:       raw.TimeSpent,
	}

	if terminal {
		if raw.CompletedAt.Before(raw.AppliedAt) {
			return fail("completed_at is before applied_at", nil)
		}
		completedAt := *raw.CompletedAt
		record.CompletedAt = &completedAt
		record.Score = types.Scored(*raw.Score)

		if len(raw.Breakdown) > 0 {
			record.Breakdown = make(map[string]float64, len(raw.Breakdown))
			for k, v := range raw.Breakdown {
				record.Breakdown[strings.TrimSpace(k)] = v
			}
		}
	}

	return record, nil
}

// NormalizeCandidate validates a raw candidate. A candidate whose identity or
// status is invalid is rejected as a whole (the returned error slice then
// holds exactly that error and ok is false). Malformed assessment records are
// excluded individually and reported; they never abort the candidate.
func (n *Normalizer) NormalizeCandidate(raw RawCandidate) (types.Candidate, []error, bool) {
	if err := validate.Struct(raw); err != nil {
		nerr := &NormalizationError{CandidateID: raw.ID, Message: "invalid candidate identity", Cause: err}
		n.Logger.Warn("rejecting candidate", slog.String("candidate_id", raw.ID), slog.Any("error", err))
		return types.Candidate{}, []error{nerr}, false
	}

	if raw.timeErr != nil {
		nerr := &NormalizationError{CandidateID: raw.ID, Message: "invalid timestamp", Cause: raw.timeErr}
		n.Logger.Warn("rejecting candidate", slog.String("candidate_id", raw.ID), slog.Any("error", raw.timeErr))
		return types.Candidate{}, []error{nerr}, false
	}

	status := types.CandidateStatus(strings.ToLower(strings.TrimSpace(raw.Status)))
	if !status.Valid() {
		nerr := &NormalizationError{CandidateID: raw.ID, Message: fmt.Sprintf("unknown candidate status '%s'", raw.Status)}
		n.Logger.Warn("rejecting candidate", slog.String("candidate_id", raw.ID), slog.String("status", raw.Status))
		return types.Candidate{}, []error{nerr}, false
	}

	if raw.MemberSince.IsZero() {
		nerr := &NormalizationError{CandidateID: raw.ID, Message: "member_since is required"}
		n.Logger.Warn("rejecting candidate", slog.String("candidate_id", raw.ID), slog.String("reason", "missing member_since"))
		return types.Candidate{}, []error{nerr}, false
	}

	candidate := types.Candidate{
		ID:          strings.TrimSpace(raw.ID),
		Name:        strings.TrimSpace(raw.Name),
		Email:       strings.ToLower(strings.TrimSpace(raw.Email)),
		Phone:       strings.TrimSpace(raw.Phone),
		Status:      status,
		MemberSince: raw.MemberSince,
		Assessments: make([]types.AssessmentRecord, 0, len(raw.Assessments)),
	}

	var errs []error
	for _, ra := range raw.Assessments {
		record, err := NormalizeRecord(ra)
		if err != nil {
			if nerr, ok := err.(*NormalizationError); ok {
				nerr.CandidateID = candidate.ID
			}
			n.Logger.Warn("skipping malformed assessment record",
				slog.String("candidate_id", candidate.ID),
				slog.String("assessment_id", ra.AssessmentID),
				slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		candidate.Assessments = append(candidate.Assessments, record)
	}

	return candidate, errs, true
}

// NormalizeCollection normalizes every raw candidate, keeping input order.
// Candidates with a duplicate id are rejected after the first occurrence;
// duplicate emails are only logged.
func (n *Normalizer) NormalizeCollection(raws []RawCandidate) ([]types.Candidate, Report) {
	var report Report
	candidates := make([]types.Candidate, 0, len(raws))
	seenIDs := make(map[string]struct{}, len(raws))
	seenEmails := make(map[string]string, len(raws))

	for _, raw := range raws {
		candidate, errs, ok := n.NormalizeCandidate(raw)
		report.Errors = append(report.Errors, errs...)
		if !ok {
			report.RejectedCandidates++
			continue
		}

		if _, dup := seenIDs[candidate.ID]; dup {
			err := &NormalizationError{CandidateID: candidate.ID, Message: "duplicate candidate id"}
			n.Logger.Warn("rejecting candidate", slog.String("candidate_id", candidate.ID), slog.String("reason", "duplicate id"))
			report.Errors = append(report.Errors, err)
			report.RejectedCandidates++
			continue
		}
		seenIDs[candidate.ID] = struct{}{}

		if other, dup := seenEmails[candidate.Email]; dup {
			n.Logger.Warn("duplicate candidate email",
				slog.String("candidate_id", candidate.ID),
				slog.String("other_candidate_id", other),
				slog.String("email", candidate.Email))
		} else {
			seenEmails[candidate.Email] = candidate.ID
		}

		report.AcceptedCandidates++
		report.AcceptedRecords += len(candidate.Assessments)
		report.SkippedRecords += len(raw.Assessments) - len(candidate.Assessments)
		candidates = append(candidates, candidate)
	}

	return candidates, report
}
