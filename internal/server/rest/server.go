// Package rest exposes the medreminder API over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/medreminder/internal/logging"
	"github.com/dmitrijs2005/medreminder/internal/server/metrics"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/dmitrijs2005/medreminder/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// UserService is the account side the handlers and the auth guard need.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UserIDFromToken(token string) (string, error)
}

type MedicineService interface {
	Create(ctx context.Context, user *models.User, in services.CreateMedicineInput) (*models.Medicine, error)
	Decrease(ctx context.Context, in services.DecreaseInput) error
	GetMedicine(ctx context.Context, userID string) ([]models.Schedule, error)
	GetUserMedicine(ctx context.Context, userID string) ([]*models.Medicine, error)
	GetReminders(ctx context.Context) ([]*models.Reminder, error)
	Delete(ctx context.Context, compartment int) error
}

// Pinger reports database reachability for /health. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address   string
	users     UserService
	medicines MedicineService
	db        Pinger
	metrics   *metrics.Metrics
	logger    logging.Logger
	deviceKey string
}

func NewServer(a string, l logging.Logger, us UserService, ms MedicineService,
	db Pinger, m *metrics.Metrics, deviceKey string) *Server {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		medicines: ms,
		db:        db,
		metrics:   m,
		deviceKey: deviceKey,
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
