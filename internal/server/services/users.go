// Package services contains server-side business logic: account registration
// and login (UserService) and compartment bookkeeping (MedicineService).
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/dmitrijs2005/medreminder/internal/server/auth"
	"github.com/dmitrijs2005/medreminder/internal/server/config"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/repomanager"
)

// RegisterInput is the create-account payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"min=3"`
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=6,pwbytes"`
}

// LoginInput is the login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=6,pwbytes"`
}

// AuthResult is returned by Register and Login. User never carries a password.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// UserService creates accounts, authenticates logins and resolves token
// subjects.
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
	dummyHash     string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*UserService, error) {
	s := &UserService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		bcryptCost:    cfg.BcryptCost,
	}

	// Unknown emails are checked against this hash so that a login for a
	// missing account costs as much as one with a wrong password.
	h, err := auth.HashPassword("medreminder-dummy-password", cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	s.dummyHash = h

	return s, nil
}

// Register creates an account and returns it with a fresh token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrAlreadyExists
	case !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	user, err := repo.Create(ctx, &models.User{Name: in.Name, Email: in.Email, Password: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	return s.authResult(user)
}

// Login checks the credentials. Unknown email and wrong password are the
// same error.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.VerifyPassword(in.Password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if !auth.VerifyPassword(in.Password, user.Password) {
		return nil, common.ErrInvalidCredentials
	}

	user.Medicines, err = s.repomanager.Medicines(s.db).ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	return s.authResult(user)
}

// GetByID resolves a user id; common.ErrNotFound when it does not exist.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// UserIDFromToken decodes a bearer token issued by this service.
func (s *UserService) UserIDFromToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	return &AuthResult{User: user.Sanitized(), Token: token}, nil
}
