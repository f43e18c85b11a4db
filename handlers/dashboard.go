package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recipe-analysis/analysis"
	"recipe-analysis/database"
	"recipe-analysis/models"
)

type DashboardData struct {
	Filters FilterParams
	Runs    []models.AnalysisRun
	Stats   *database.RunStats
	Options analysis.Options
}

type FilterParams struct {
	DriftDetected string
	MinOutliers   int
	Strategy      string
}

type RunPageData struct {
	Run        *models.AnalysisRun
	Result     *analysis.Result
	Comparison []analysis.ComparisonRow
}

func Dashboard(c *gin.Context) {
	filter := runFilter(c)
	db := database.GetDB()

	runs, err := database.ListRuns(db, filter)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}

	// Stats only make sense once something has been analysed.
	var stats *database.RunStats
	if len(runs) > 0 {
		stats, err = database.Stats(db, filter)
		if err != nil {
			log.WithError(err).Warn("failed to load run stats")
		}
	}

	data := DashboardData{
		Filters: FilterParams{
			DriftDetected: c.Query("drift_detected"),
			MinOutliers:   filter.MinOutliers,
			Strategy:      filter.Strategy,
		},
		Runs:    runs,
		Stats:   stats,
		Options: baseOptions,
	}

	c.HTML(http.StatusOK, "dashboard.html", data)
}

func RunPage(c *gin.Context) {
	runID := c.Param("run_id")

	run, result, err := database.GetRun(database.GetDB(), runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Run not found"})
			return
		}
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": "Database error"})
		return
	}

	c.HTML(http.StatusOK, "run.html", RunPageData{
		Run:        run,
		Result:     result,
		Comparison: result.Recommendation.Comparison(),
	})
}
