package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recipe-analysis/analysis"
)

var (
	baseOptions = analysis.DefaultOptions()
	runsMax     = 500
	log         = logrus.NewEntry(logrus.StandardLogger())
)

// Configure sets the pipeline defaults and run log size used by the handlers.
func Configure(opts analysis.Options, maxRuns int, logger *logrus.Logger) {
	baseOptions = opts
	runsMax = maxRuns
	if logger != nil {
		log = logrus.NewEntry(logger)
	}
}

// Register mounts every route on r. HTML templates must already be loaded.
func Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.Redirect(302, "/dashboard")
	})

	r.GET("/dashboard", Dashboard)
	r.GET("/runs/:run_id", RunPage)

	api := r.Group("/api")
	{
		api.POST("/analyze", Analyze)
		api.GET("/runs", GetRuns)
		api.GET("/runs/:run_id", GetRun)
		api.GET("/stats", GetStats)
		api.GET("/literature", GetLiterature)
	}
}
