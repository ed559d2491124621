// Package app wires configuration into the clients and services used by every command.
package app

import (
	"database/sql"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/axellelanca/urlshortener-frontend/internal/apiclient"
	"github.com/axellelanca/urlshortener-frontend/internal/config"
	"github.com/axellelanca/urlshortener-frontend/internal/logging"
	"github.com/axellelanca/urlshortener-frontend/internal/models"
	"github.com/axellelanca/urlshortener-frontend/internal/repository"
	"github.com/axellelanca/urlshortener-frontend/internal/services"
)

// App holds the dependencies built from one Config.
type App struct {
	Config  *config.Config
	Log     *zap.Logger
	Events  *logging.Logger
	API     *apiclient.Client
	Shorten *services.ShortenService
	Stats   *services.StatsService

	sqlDB *sql.DB
}

// New builds the App. The history database is opened and migrated only when
// cfg.Database.Name is set; opening it never blocks the rest of the wiring.
func New(cfg *config.Config) (*App, error) {
	log, err := logging.NewAppLogger(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Log:    log,
		Events: logging.New(logging.Options{SinkURL: cfg.Logging.ServerURL}),
		API:    apiclient.New(cfg.API.BaseURL, cfg.API.AccessToken, nil),
	}

	var history repository.HistoryRepository
	if cfg.Database.Name != "" {
		db, err := OpenDatabase(cfg.Database.Name)
		if err != nil {
			log.Warn("local history disabled", zap.String("database", cfg.Database.Name), zap.Error(err))
		} else {
			history = repository.NewHistoryRepository(db)
			a.sqlDB, _ = db.DB()
		}
	}

	a.Shorten = services.NewShortenService(a.API, a.Events, history, log, cfg.Logging.Stack)
	a.Stats = services.NewStatsService(a.API, a.Events, cfg.Logging.Stack)

	log.Debug("application wired",
		zap.String("api", a.API.BaseURL()),
		zap.Bool("remote_logging", cfg.Logging.ServerURL != ""),
		zap.Bool("history", history != nil))
	return a, nil
}

// OpenDatabase opens the SQLite history file and migrates its schema.
func OpenDatabase(name string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.AutoMigrate(&models.HistoryEntry{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return db, nil
}

// Close releases the history database and flushes the process logger.
func (a *App) Close() {
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
	}
	_ = a.Log.Sync()
}
