package main

import (
	"sellboard/internal/config"
	"sellboard/internal/db"
	"sellboard/internal/log"
	"sellboard/internal/router"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Log.WithError(err).Fatal("load config")
	}
	log.Init(cfg.LogLevel, cfg.IsProduction())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	conn, err := db.Init(cfg)
	if err != nil {
		log.Log.WithError(err).Fatal("init database")
	}

	r := router.New(cfg, conn)

	log.Log.Infof("sellboard server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Log.WithError(err).Fatal("server stopped")
	}
}
