package main

import (
	"flag"
	"log"

	"dentsim_backend/internal/app"
	"dentsim_backend/internal/config"
	"dentsim_backend/pkg/configwatcher"
	"dentsim_backend/pkg/database"
	"dentsim_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migration and exit")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *migrateOnly {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		sqlDB, _ := db.DB()
		sqlDB.Close()
		log.Println("Database migration completed, exiting")
		return
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadConfig)

	application.Run()
}
