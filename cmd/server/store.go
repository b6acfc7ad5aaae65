package main

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/giftfndr-backend/internal/config"
	"github.com/tbourn/giftfndr-backend/internal/repo"
	"github.com/tbourn/giftfndr-backend/internal/services"
)

// openStore selects the share backend. The returned close func is never nil.
func openStore(cfg config.ShareConfig) (services.ShareStore, func(), error) {
	if cfg.Store != config.StoreSQLite {
		log.Info().Msg("share store: memory")
		return repo.NewMemoryShareStore(), func() {}, nil
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open share db")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "share db handle")
	}
	if err := repo.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, errors.Wrap(err, "migrate share db")
	}
	log.Info().Str("path", cfg.DBPath).Msg("share store: sqlite")
	return repo.NewSQLiteShareStore(db), func() { _ = sqlDB.Close() }, nil
}
