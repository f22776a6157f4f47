// Package app initializes and runs the API service. It wires configuration,
// logging, the storage backend, the token and password capabilities, and
// the HTTP router, and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkolesni/itemstash/internal/auth"
	"github.com/dkolesni/itemstash/internal/config"
	"github.com/dkolesni/itemstash/internal/db/jsondb"
	"github.com/dkolesni/itemstash/internal/db/memorystorage"
	"github.com/dkolesni/itemstash/internal/db/mongodb"
	"github.com/dkolesni/itemstash/internal/db/postgresdb"
	"github.com/dkolesni/itemstash/internal/db/storage"
	"github.com/dkolesni/itemstash/internal/hasher"
	"github.com/dkolesni/itemstash/internal/logger"
	"github.com/dkolesni/itemstash/internal/models"
	"github.com/dkolesni/itemstash/internal/router"
	"github.com/dkolesni/itemstash/internal/service"
	"github.com/dkolesni/itemstash/internal/token"
)

// App encapsulates the configuration, HTTP handler and storage backend
// needed to run the service.
type App struct {
	cfg         *config.Config
	db          storage.Storage
	httpHandler http.Handler
}

// New initializes a new App by loading configuration, initializing the
// logger, selecting and connecting the storage backend, and assembling the
// router. A storage backend that cannot be reached is a fatal startup
// error.
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	if err = logger.Init(app.cfg.LogLevel); err != nil {
		return nil, err
	}

	app.db, err = getStorageByType(app.cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	tokens := token.New([]byte(app.cfg.TokenSecret), app.cfg.TokenTTL)
	passwords := hasher.New(app.cfg.BcryptCost)

	app.httpHandler = router.New(
		service.NewAuth(app.db, passwords, tokens),
		service.NewItems(app.db),
		auth.New(tokens),
		app.db,
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support. It listens for
// system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing storage and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.Environment == config.EnvTest {
		return models.StorageTypeMemory
	}

	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.MongoURI != "" {
		return models.StorageTypeMongo
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypeUnknown:
		return nil, errors.New("unknown storage type")

	case models.StorageTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.StorageTypeMongo:
		return mongodb.New(
			context.Background(),
			cfg.MongoURI,
			cfg.MongoDatabase,
			cfg.DBConnectionTimeout,
		)

	case models.StorageTypeFile:
		return jsondb.New(cfg.DBFileName)
	}

	return memorystorage.New()
}
