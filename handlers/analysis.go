package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recipe-analysis/analysis"
	"recipe-analysis/database"
	"recipe-analysis/models"
)

type AnalyzeRequest struct {
	Recipe       models.Recipe                 `json:"recipe" binding:"required"`
	Measurements []models.ElectrodeMeasurement `json:"measurements" binding:"required,min=1,dive"`
	Options      analysis.Overrides            `json:"options"`
}

type AnalyzeResponse struct {
	RunID  string           `json:"run_id,omitempty"`
	Result *analysis.Result `json:"result"`
}

func Analyze(c *gin.Context) {
	var request AnalyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "detail": err.Error()})
		return
	}

	analyzer, err := analysis.NewAnalyzer(baseOptions.With(request.Options), log)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := analyzer.Run(request.Recipe, request.Measurements)
	if err != nil {
		var verr *analysis.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "problems": verr.Problems})
			return
		}
		if errors.Is(err, analysis.ErrUndefinedRatio) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}

	response := AnalyzeResponse{Result: result}

	// The run log is best effort; the analysis result is returned either way.
	if run, err := database.NewRun(result); err != nil {
		log.WithError(err).Warn("failed to encode run")
	} else if err := database.SaveRun(database.GetDB(), run, runsMax); err != nil {
		log.WithError(err).Warn("failed to save run")
	} else {
		response.RunID = run.ID
		log.WithFields(logrus.Fields{"run_id": run.ID, "electrodes": run.ElectrodeCount}).Info("run saved")
	}

	c.JSON(http.StatusOK, response)
}

func GetLiterature(c *gin.Context) {
	c.JSON(http.StatusOK, analysis.LiteratureEntries())
}
