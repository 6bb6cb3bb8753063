package main

import (
	"context"
	"log"

	flag "github.com/spf13/pflag"

	"focusboard/backend/internal/adhkar"
	"focusboard/backend/internal/config"
	"focusboard/backend/internal/db"
	"focusboard/backend/internal/handler"
	"focusboard/backend/internal/parser"
	"focusboard/backend/internal/prefs"
	"focusboard/backend/internal/quran"
	"focusboard/backend/internal/remote"
	"focusboard/backend/internal/router"
	"focusboard/backend/internal/store"
)

func main() {
	configPath := flag.String("config", "./focusboard.json", "path to the config file")
	localOnly := flag.Bool("local-only", false, "run from seed data without a database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *localOnly {
		cfg.DBPath = ""
	}

	var (
		adapter   remote.Adapter
		hub       *remote.Hub
		quranRepo *quran.Repository
	)
	if cfg.DBPath != "" {
		database, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer database.Close()

		if err := db.Migrate(database); err != nil {
			log.Fatalf("run migrations: %v", err)
		}

		hub = remote.NewHub()
		sqliteAdapter, err := remote.NewSQLiteAdapter(database, hub)
		if err != nil {
			log.Fatalf("probe schema: %v", err)
		}
		adapter = sqliteAdapter
		quranRepo = quran.NewRepository(database)
	} else {
		log.Println("no database configured, running local-only from seed data")
	}

	taskStore := store.New(adapter, nil)
	taskStore.Init(context.Background())
	defer taskStore.Close()

	prefStore, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		log.Fatalf("open prefs: %v", err)
	}
	adhkarStore, err := adhkar.Open(cfg.AdhkarPath)
	if err != nil {
		log.Fatalf("open adhkar: %v", err)
	}
	parserClient := parser.New(cfg.AIBaseURL, cfg.AIModel, cfg.AIAPIKey)

	engine := router.New(
		handler.NewTaskHandler(taskStore),
		handler.NewParserHandler(parserClient, prefStore, taskStore),
		handler.NewPrefsHandler(prefStore),
		handler.NewQuranHandler(quranRepo),
		handler.NewAdhkarHandler(adhkarStore),
		handler.NewEventsHandler(hub),
		cfg.CORSOrigins,
	)

	log.Printf("backend listening on :%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
