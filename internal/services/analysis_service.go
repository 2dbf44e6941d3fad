package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sdpro1234/skin-disease-ai/internal/models"
)

// AnalysisServiceProvider defines the interface for analysis history services.
type AnalysisServiceProvider interface {
	Record(username, summary, model string) (models.Analysis, error)
	RecentForUser(username string, limit int) ([]models.Analysis, error)
	TrimOlderThan(age time.Duration) (int64, error)
}

// AnalysisService persists completed analyses and serves the dashboard history.
type AnalysisService struct {
	db *sql.DB
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(db *sql.DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// Record stores the outcome of one completed analysis.
func (s *AnalysisService) Record(username, summary, model string) (models.Analysis, error) {
	analysis := models.Analysis{
		ID:       uuid.New().String(),
		Username: username,
		Summary:  summary,
		Model:    model,
	}

	stmt, err := s.db.Prepare("INSERT INTO analyses (id, username, summary, model) VALUES (?, ?, ?, ?)")
	if err != nil {
		return models.Analysis{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(analysis.ID, analysis.Username, analysis.Summary, analysis.Model)
	if err != nil {
		return models.Analysis{}, err
	}
	return analysis, nil
}

// RecentForUser retrieves the most recent analyses for a user.
func (s *AnalysisService) RecentForUser(username string, limit int) ([]models.Analysis, error) {
	rows, err := s.db.Query(
		"SELECT id, username, summary, model, created_at FROM analyses WHERE username = ? ORDER BY created_at DESC LIMIT ?",
		username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []models.Analysis
	for rows.Next() {
		var a models.Analysis
		if err := rows.Scan(&a.ID, &a.Username, &a.Summary, &a.Model, &a.CreatedAt); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// TrimOlderThan deletes analyses older than the given age and returns how many
// rows were removed. Used by the background sweeper.
func (s *AnalysisService) TrimOlderThan(age time.Duration) (int64, error) {
	// created_at comes from CURRENT_TIMESTAMP, which sqlite stores as UTC
	// text; the cutoff must be formatted the same way to compare correctly.
	cutoff := time.Now().Add(-age).UTC().Format("2006-01-02 15:04:05")
	res, err := s.db.Exec("DELETE FROM analyses WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
