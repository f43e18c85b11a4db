package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"recipe-analysis/config"
	"recipe-analysis/database"
	"recipe-analysis/handlers"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP dashboard and API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			log := cfg.Logger()

			if err := database.InitDB(cfg.Database.DSN); err != nil {
				return err
			}
			defer database.Close()
			log.WithField("dsn", cfg.Database.DSN).Info("run log opened")

			handlers.Configure(cfg.Analysis, cfg.Database.RunsMax, log)

			gin.SetMode(cfg.Server.Mode)
			r := gin.Default()
			r.Static("/static", cfg.Server.StaticDir)
			r.LoadHTMLGlob(cfg.Server.TemplateGlob)
			handlers.Register(r)

			log.WithFields(cfg.Analysis.Fields()).Infof("starting recipe analysis server on %s", cfg.Server.Addr)
			log.Infof("dashboard: http://localhost%s/dashboard", cfg.Server.Addr)

			if err := r.Run(cfg.Server.Addr); err != nil {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		},
	}
}
