package models

import "time"

// AnalysisRun is an entry in the in-process run log.
type AnalysisRun struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
	Polymer         string    `json:"polymer"`
	ElectrodeCount  int       `json:"electrode_count"`
	OutlierStrategy string    `json:"outlier_strategy"`
	DriftStrategy   string    `json:"drift_strategy"`
	RecipeMode      string    `json:"recipe_mode"`
	MeanRatio       float64   `json:"mean_ratio"`
	OutlierCount    int       `json:"outlier_count"`
	DriftValue      float64   `json:"drift_value"`
	DriftDetected   bool      `json:"drift_detected"`
	ChangeCount     int       `json:"change_count"`
	RecipeJSON      string    `json:"-"`
	ResultJSON      string    `json:"-"`
}
