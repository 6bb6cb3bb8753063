package main

import (
	"log"

	flag "github.com/spf13/pflag"

	"focusboard/backend/internal/config"
	"focusboard/backend/internal/db"
)

func main() {
	configPath := flag.String("config", "./focusboard.json", "path to the config file")
	through := flag.String("through", "", "apply migrations up to the one with this name prefix")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.DBPath == "" {
		log.Fatal("no database configured (DB_PATH is empty)")
	}

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.MigrateThrough(database, *through); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	log.Println("migrations applied successfully")
}
