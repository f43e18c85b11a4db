package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipe-analysis/analysis"
	"recipe-analysis/models"
)

// RunFilter narrows ListRuns.
type RunFilter struct {
	DriftDetected *bool
	MinOutliers   int
	Strategy      string
	Limit         int
}

// RunStats aggregates the run log.
type RunStats struct {
	Total         int64   `json:"total"`
	DriftDetected int64   `json:"drift_detected"`
	WithOutliers  int64   `json:"with_outliers"`
	Changed       int64   `json:"changed"`
	AvgRatio      float64 `json:"avg_ratio"`
	AvgDrift      float64 `json:"avg_drift"`
}

// NewRun summarises a result into a run log entry.
func NewRun(res *analysis.Result) (*models.AnalysisRun, error) {
	recipeJSON, err := json.Marshal(res.Recipe)
	if err != nil {
		return nil, fmt.Errorf("encode recipe: %w", err)
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &models.AnalysisRun{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		Polymer:         res.Recipe.Polymer,
		ElectrodeCount:  len(res.Metrics),
		OutlierStrategy: string(res.Outliers.Strategy),
		DriftStrategy:   string(res.Drift.Strategy),
		RecipeMode:      string(res.Recommendation.Mode),
		MeanRatio:       res.Narrative.MeanRatio,
		OutlierCount:    res.Outliers.Count(),
		DriftValue:      res.Drift.Value,
		DriftDetected:   res.Drift.Detected,
		ChangeCount:     len(res.Recommendation.Changes),
		RecipeJSON:      string(recipeJSON),
		ResultJSON:      string(resultJSON),
	}, nil
}

// SaveRun stores a run and trims the log to keep at most max entries.
func SaveRun(db *gorm.DB, run *models.AnalysisRun, max int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		if max <= 0 {
			return nil
		}
		// Drop everything older than the newest max runs.
		keep := tx.Model(&models.AnalysisRun{}).Select("id").Order("created_at DESC").Limit(max)
		if err := tx.Where("id NOT IN (?)", keep).Delete(&models.AnalysisRun{}).Error; err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
		return nil
	})
}

func filtered(db *gorm.DB, f RunFilter) *gorm.DB {
	query := db.Model(&models.AnalysisRun{})
	if f.DriftDetected != nil {
		query = query.Where("drift_detected = ?", *f.DriftDetected)
	}
	if f.MinOutliers > 0 {
		query = query.Where("outlier_count >= ?", f.MinOutliers)
	}
	if f.Strategy != "" {
		query = query.Where("outlier_strategy = ? OR drift_strategy = ?", f.Strategy, f.Strategy)
	}
	return query
}

// ListRuns returns the newest runs matching f.
func ListRuns(db *gorm.DB, f RunFilter) ([]models.AnalysisRun, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	var runs []models.AnalysisRun
	err := filtered(db, f).Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// GetRun loads one run with its stored result. gorm.ErrRecordNotFound is
// returned for unknown IDs.
func GetRun(db *gorm.DB, id string) (*models.AnalysisRun, *analysis.Result, error) {
	var run models.AnalysisRun
	if err := db.Where("id = ?", id).First(&run).Error; err != nil {
		return nil, nil, err
	}
	var res analysis.Result
	if err := json.Unmarshal([]byte(run.ResultJSON), &res); err != nil {
		return &run, nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &run, &res, nil
}

// Stats aggregates the runs matching f.
func Stats(db *gorm.DB, f RunFilter) (*RunStats, error) {
	var stats RunStats
	if err := filtered(db, f).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if stats.Total == 0 {
		return &stats, nil
	}
	if err := filtered(db, f).Where("drift_detected = ?", true).Count(&stats.DriftDetected).Error; err != nil {
		return nil, err
	}
	if err := filtered(db, f).Where("outlier_count > ?", 0).Count(&stats.WithOutliers).Error; err != nil {
		return nil, err
	}
	if err := filtered(db, f).Where("change_count > ?", 0).Count(&stats.Changed).Error; err != nil {
		return nil, err
	}

	var avg struct {
		Ratio float64
		Drift float64
	}
	if err := filtered(db, f).Select("AVG(mean_ratio) AS ratio, AVG(drift_value) AS drift").Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats.AvgRatio, stats.AvgDrift = avg.Ratio, avg.Drift
	return &stats, nil
}
