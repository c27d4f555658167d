// Package server wires the medreminder application together: it opens the
// database, applies migrations, builds the services and runs the HTTP API
// and the gRPC health service until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/medreminder/internal/logging"
	"github.com/dmitrijs2005/medreminder/internal/server/archive"
	"github.com/dmitrijs2005/medreminder/internal/server/config"
	"github.com/dmitrijs2005/medreminder/internal/server/metrics"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/medreminder/internal/server/rest"
	"github.com/dmitrijs2005/medreminder/internal/server/services"

	gs "github.com/dmitrijs2005/medreminder/internal/server/grpc"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	metrics         *metrics.Metrics
	userService     *services.UserService
	medicineService *services.MedicineService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	arch, err := archive.New(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("archive init error: %w", err)
	}

	m := metrics.New()

	us, err := services.NewUserService(db, rm, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	ms := services.NewMedicineService(db, rm, c, arch, m, logger)

	return &App{config: c, logger: logger, db: db, metrics: m, userService: us, medicineService: ms}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.HTTPAddr, app.logger, app.userService, app.medicineService,
		app.db, app.metrics, app.config.DeviceKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCAddr, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until both servers have stopped, then closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.GRPCAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
