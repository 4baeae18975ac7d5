package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jonathan/candidate-insights/internal/intake"
	"github.com/jonathan/candidate-insights/internal/types"
)

// candidateRow is the SQLite table for candidates
type candidateRow struct {
	ID          string `gorm:"primaryKey"`
	Position    int    `gorm:"index"`
	Name        string
	Email       string `gorm:"index"`
	Phone       string
	Status      string
	MemberSince time.Time
	UpdatedAt   time.Time
	Assessments []recordRow `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE"`
}

func (candidateRow) TableName() string { return "candidates" }

// recordRow is the SQLite table for assessment records
type recordRow struct {
	ID              uint   `gorm:"primaryKey"`
	CandidateID     string `gorm:"index"`
	Position        int
	AssessmentID    string
	AssessmentTitle string
	AssessmentType  string `gorm:"index"`
	Score           *float64
	Status          string
	AppliedAt       time.Time
	CompletedAt     *time.Time
	TimeSpent       int
	Breakdown       datatypes.JSONMap
}

func (recordRow) TableName() string { return "assessment_records" }

// SQLite stores candidates in a local SQLite file through gorm
type SQLite struct {
	db     *gorm.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) a SQLite database and migrates it
func OpenSQLite(dbPath string, log *slog.Logger) (*SQLite, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.AutoMigrate(&candidateRow{}, &recordRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &SQLite{db: db, logger: log}, nil
}

// Close closes the underlying connection
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// Save upserts candidates and replaces their records in one transaction.
// New candidates are appended after existing ones.
func (s *SQLite) Save(ctx context.Context, candidates []types.Candidate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&candidateRow{}).Select("COALESCE(MAX(position), -1) + 1").Scan(&next).Error; err != nil {
			return fmt.Errorf("query next position: %w", err)
		}

		for _, c := range candidates {
			c = assignID(c)

			var existing candidateRow
			err := tx.Select("id", "position").First(&existing, "id = ?", c.ID).Error
			position := existing.Position
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				position = next
				next++
			case err != nil:
				return fmt.Errorf("lookup candidate %s: %w", c.ID, err)
			}

			row := candidateRow{
				ID:          c.ID,
				Position:    position,
				Name:        c.Name,
				Email:       c.Email,
				Phone:       c.Phone,
				Status:      string(c.Status),
				MemberSince: c.MemberSince,
			}
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "status", "member_since", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("upsert candidate %s: %w", c.ID, err)
			}

			if err := tx.Where("candidate_id = ?", c.ID).Delete(&recordRow{}).Error; err != nil {
				return fmt.Errorf("clear records for candidate %s: %w", c.ID, err)
			}
			if len(c.Assessments) == 0 {
				continue
			}

			records := make([]recordRow, 0, len(c.Assessments))
			for i, r := range c.Assessments {
				records = append(records, recordRow{
					CandidateID:     c.ID,
					Position:        i,
					AssessmentID:    r.AssessmentID,
					AssessmentTitle: r.AssessmentTitle,
					AssessmentType:  string(r.AssessmentType),
					Score:           r.Score.Ptr(),
					Status:          string(r.Status),
					AppliedAt:       r.AppliedAt,
					CompletedAt:     r.CompletedAt,
					TimeSpent:       r.TimeSpent,
					Breakdown:       toJSONMap(r.Breakdown),
				})
			}
			if err := tx.Create(&records).Error; err != nil {
				return fmt.Errorf("insert records for candidate %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// List returns every candidate in insertion order
func (s *SQLite) List(ctx context.Context) ([]types.Candidate, error) {
	var rows []candidateRow
	if err := s.withRecords(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	raws := make([]intake.RawCandidate, 0, len(rows))
	for _, row := range rows {
		raws = append(raws, row.raw())
	}
	return renormalize(raws, s.logger), nil
}

// Get retrieves a candidate by id, or nil when missing
func (s *SQLite) Get(ctx context.Context, id string) (*types.Candidate, error) {
	var row candidateRow
	if err := s.withRecords(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	candidates := renormalize([]intake.RawCandidate{row.raw()}, s.logger)
	if len(candidates) == 0 {
		return nil, nil
	}
	return &candidates[0], nil
}

func (s *SQLite) withRecords(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Assessments", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (row candidateRow) raw() intake.RawCandidate {
	raw := intake.RawCandidate{
		ID:          row.ID,
		Name:        row.Name,
		Email:       row.Email,
		Phone:       row.Phone,
		Status:      row.Status,
		MemberSince: row.MemberSince,
		Assessments: make([]intake.RawAssessment, 0, len(row.Assessments)),
	}
	for _, r := range row.Assessments {
		raw.Assessments = append(raw.Assessments, intake.RawAssessment{
			AssessmentID:    r.AssessmentID,
			AssessmentTitle: r.AssessmentTitle,
			AssessmentType:  r.AssessmentType,
			Score:           r.Score,
			Status:          r.Status,
			AppliedAt:       r.AppliedAt,
			CompletedAt:     r.CompletedAt,
			TimeSpent:       r.TimeSpent,
			Breakdown:       fromJSONMap(r.Breakdown),
		})
	}
	return raw
}

func toJSONMap(breakdown map[string]float64) datatypes.JSONMap {
	if breakdown == nil {
		return nil
	}
	m := make(datatypes.JSONMap, len(breakdown))
	for k, v := range breakdown {
		m[k] = v
	}
	return m
}

// fromJSONMap converts decoded JSON numbers back to float64 sub-scores;
// non-numeric values are dropped
func fromJSONMap(m datatypes.JSONMap) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		switch n := v.(type) {
		case json.Number:
			if f, err := n.Float64(); err == nil {
				out[k] = f
			}
		case float64:
			out[k] = n
		case int:
			out[k] = float64(n)
		case int64:
			out[k] = float64(n)
		}
	}
	return out
}
