package rest

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/gorilla/mux"
)

// DeviceKeyHeader carries the dispenser's shared secret.
const DeviceKeyHeader = "X-Device-Key"

type ctxKey string

const userKey ctxKey = "user"

// UserFromContext returns the user resolved by the auth guard, or nil when the
// token subject no longer exists.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// authenticate requires "Authorization: Bearer <token>". A valid token whose
// user is gone is forwarded without a user; handlers decide what that means.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, found := bearerToken(r.Header.Get("Authorization"))
		if !found {
			s.fail(ctx, w, common.ErrUnauthorized)
			return
		}

		userID, err := s.users.UserIDFromToken(token)
		if err != nil {
			s.fail(ctx, w, fmt.Errorf("%w: %v", common.ErrUnauthorized, err))
			return
		}

		user, err := s.users.GetByID(ctx, userID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			next.ServeHTTP(w, r)
		case err != nil:
			s.fail(ctx, w, fmt.Errorf("%w: %v", common.ErrInternal, err))
		default:
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userKey, user)))
		}
	})
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// requireDevice checks X-Device-Key when a device key is configured.
func (s *Server) requireDevice(next http.Handler) http.Handler {
	if s.deviceKey == "" {
		return next
	}
	key := []byte(s.deviceKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get(DeviceKeyHeader))
		if subtle.ConstantTimeCompare(got, key) != 1 {
			s.fail(r.Context(), w, common.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				s.fail(r.Context(), w, fmt.Errorf("%w: panic: %v", common.ErrInternal, p))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// unmatchedRoute labels requests no route matched, keeping raw paths out of
// metric labels.
const unmatchedRoute = "unmatched"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument logs each request and feeds the request metrics, labelled by
// route template.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := unmatchedRoute
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)

		s.metrics.Requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		s.metrics.RequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
		s.logger.Info(r.Context(), "request",
			"method", r.Method, "route", route, "status", rec.status, "duration", elapsed)
	})
}
