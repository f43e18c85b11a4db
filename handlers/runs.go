package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recipe-analysis/database"
)

// runFilter reads the filter query parameters shared by the run endpoints.
func runFilter(c *gin.Context) database.RunFilter {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	minOutliers, _ := strconv.Atoi(c.DefaultQuery("min_outliers", "0"))

	f := database.RunFilter{
		MinOutliers: minOutliers,
		Strategy:    c.Query("strategy"),
		Limit:       limit,
	}
	if v := c.Query("drift_detected"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.DriftDetected = &b
		}
	}
	return f
}

func GetRuns(c *gin.Context) {
	runs, err := database.ListRuns(database.GetDB(), runFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func GetRun(c *gin.Context) {
	runID := c.Param("run_id")

	run, result, err := database.GetRun(database.GetDB(), runID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run, "result": result})
}

func GetStats(c *gin.Context) {
	stats, err := database.Stats(database.GetDB(), runFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
