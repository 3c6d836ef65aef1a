package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/mfarghaly/egx_dashboard_api/config"
)

type Postgres struct {
	db  *sqlx.DB
	cfg *config.Config
}

func NewPostgres(cfg *config.Config, db *sqlx.DB) *Postgres {
	return &Postgres{db: db, cfg: cfg}
}
