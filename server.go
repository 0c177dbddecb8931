package main

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// server wires the stores, config and logger together. Handlers and
// middleware hang off it; nothing reaches for globals.
type server struct {
	cfg    Config
	db     *gorm.DB
	log    *zap.Logger
	users  *UserStore
	ledger *RefreshLedger
}

func newServer(cfg Config, db *gorm.DB, log *zap.Logger) *server {
	return &server{
		cfg:    cfg,
		db:     db,
		log:    log,
		users:  NewUserStore(db),
		ledger: NewRefreshLedger(db),
	}
}
