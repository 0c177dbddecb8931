package main

import (
	"os"

	"go.uber.org/zap"
)

func main() {
	cfg := loadConfig()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set; a Postgres DSN is required")
	}

	db, err := openDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect postgres database", zap.Error(err))
	}

	// `./storeapi migrate` runs migrations and seeding then exits. Useful
	// for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		log.Info("migration and seeding completed")
		return
	}

	registerValidators()

	srv := newServer(cfg, db, log)
	if err := srv.router().Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
