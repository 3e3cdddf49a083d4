package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"gto-trainer/server/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	var serve, migrate, autoplay bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--serve":
			serve = true
		case "--migrate":
			migrate = true
		case "--auto":
			autoplay = true
		}
	}

	db := openStore(cfg)
	if db != nil {
		defer db.Close(context.Background())
	}

	if migrate {
		if db == nil {
			log.Fatal("--migrate requires DATABASE_URL")
		}
		if err := store.Migrate(context.Background(), db); err != nil {
			log.Fatal(err)
		}
		log.Println("migrated")
		return
	}

	if serve {
		if db == nil {
			log.Println("DB disabled; sessions are in-memory only")
		}
		srv := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      Router(db),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		log.Printf("listening on http://localhost:%s (Ctrl+C to stop)", cfg.Port)
		log.Fatal(srv.ListenAndServe())
		return
	}

	// default: interactive trainer at the terminal
	runTrainer(cfg, db, autoplay)
}

// openStore connects to Postgres when configured. The DB is always optional;
// a failed open just disables persistence for this run.
func openStore(cfg appConfig) *store.DB {
	if cfg.DatabaseURL == "" {
		return nil
	}
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Printf("DB disabled (open failed): %v", err)
		return nil
	}
	if cfg.AutoMigrate {
		if err := store.Migrate(context.Background(), db); err != nil {
			log.Printf("migrate failed (continuing without DB): %v", err)
			db.Close(context.Background())
			return nil
		}
		log.Println("migrated")
	}
	return db
}
