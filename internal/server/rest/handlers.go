package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/dmitrijs2005/medreminder/internal/server/services"
)

const healthTimeout = 2 * time.Second

type idRequest struct {
	ID string `json:"id"`
}

// decodeID decodes an {"id": ...} body; a missing or empty id is invalid input.
func decodeID(w http.ResponseWriter, r *http.Request, in *idRequest) error {
	if err := decode(w, r, in); err != nil {
		return err
	}
	if in.ID == "" {
		return fmt.Errorf("%w: id is required", common.ErrInvalidInput)
	}
	return nil
}

type deleteRequest struct {
	Compartment *int `json:"compartment"`
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decode(w, r, &in); err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	res, err := s.users.Register(r.Context(), in)
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}
	ok(w, envelope{"user": res.User, "token": res.Token})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decode(w, r, &in); err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	res, err := s.users.Login(r.Context(), in)
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}
	ok(w, envelope{"user": res.User, "token": res.Token})
}

func (s *Server) createMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := UserFromContext(ctx)
	if user == nil {
		s.fail(ctx, w, common.ErrUnauthorized)
		return
	}

	var in services.CreateMedicineInput
	if err := decode(w, r, &in); err != nil {
		s.fail(ctx, w, err)
		return
	}

	m, err := s.medicines.Create(ctx, user, in)
	if err != nil {
		s.fail(ctx, w, err)
		return
	}
	ok(w, envelope{"medicine": m})
}

func (s *Server) decreaseMedicine(w http.ResponseWriter, r *http.Request) {
	var in services.DecreaseInput
	if err := decode(w, r, &in); err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	if err := s.medicines.Decrease(r.Context(), in); err != nil {
		s.fail(r.Context(), w, err)
		return
	}
	ok(w, nil)
}

func (s *Server) getMedicine(w http.ResponseWriter, r *http.Request) {
	var in idRequest
	if err := decodeID(w, r, &in); err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	list, err := s.medicines.GetMedicine(r.Context(), in.ID)
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}
	ok(w, envelope{"medicine": list})
}

func (s *Server) getUserMedicine(w http.ResponseWriter, r *http.Request) {
	var in idRequest
	if err := decodeID(w, r, &in); err != nil {
		s.fail(r.Context(), w, err)
		return
	}

	list, err := s.medicines.GetUserMedicine(r.Context(), in.ID)
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}
	ok(w, envelope{"medicine": list})
}

func (s *Server) getReminders(w http.ResponseWriter, r *http.Request) {
	list, err := s.medicines.GetReminders(r.Context())
	if err != nil {
		s.fail(r.Context(), w, err)
		return
	}
	ok(w, envelope{"reminders": list})
}

func (s *Server) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	var in deleteRequest
	if err := decode(w, r, &in); err != nil {
		s.fail(r.Context(), w, err)
		return
	}
	if in.Compartment == nil {
		s.fail(r.Context(), w, fmt.Errorf("%w: compartment is required", common.ErrInvalidInput))
		return
	}

	if err := s.medicines.Delete(r.Context(), *in.Compartment); err != nil {
		s.fail(r.Context(), w, err)
		return
	}
	ok(w, envelope{"deleted": true})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn(ctx, "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{"success": false, "error": common.CodeServerError})
		return
	}
	ok(w, nil)
}
