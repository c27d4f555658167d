package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertQ   = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*name,\s*email,\s*password\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+created_at\s*$`
	byEmailQ  = `(?s)^SELECT\s+id,\s*name,\s*email,\s*password,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	byIDQ     = `(?s)^SELECT\s+id,\s*name,\s*email,\s*password,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	wrappedRe = `db error: .*db down`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at"}).
		AddRow("u-1", "Alice", "a@x.com", "$2a$12$hash", now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), "Alice", "a@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	got, err := repo.Create(context.Background(), &models.User{Name: "Alice", Email: "a@x.com", Password: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(got.ID) != 36 {
		t.Fatalf("expected generated uuid, got %q", got.ID)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at not scanned: %v", got.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreate_KeepsGivenID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs("fixed-id-123", "Alice", "a@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	got, err := repo.Create(context.Background(), &models.User{ID: "fixed-id-123", Name: "Alice", Email: "a@x.com", Password: "hash"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "fixed-id-123" {
		t.Fatalf("id overwritten: %q", got.ID)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Name: "Alice", Email: "a@x.com", Password: "hash"})
	if !errors.Is(err, common.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Name: "Alice", Email: "a@x.com", Password: "hash"})
	if err == nil || !regexp.MustCompile(wrappedRe).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetUserByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQ).WithArgs("a@x.com").WillReturnRows(userRows(time.Now()))

	got, err := repo.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Password != "$2a$12$hash" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byEmailQ).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByEmail(context.Background(), "ghost@x.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestGetUserByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(byIDQ).WithArgs("u-1").WillReturnRows(userRows(time.Now()))
	mock.ExpectQuery(byIDQ).WithArgs("u-2").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(byIDQ).WithArgs("u-3").WillReturnError(errors.New("db down"))

	got, err := repo.GetUserByID(context.Background(), "u-1")
	if err != nil || got.Email != "a@x.com" {
		t.Fatalf("unexpected result: %+v, %v", got, err)
	}

	if _, err := repo.GetUserByID(context.Background(), "u-2"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	if _, err := repo.GetUserByID(context.Background(), "u-3"); err == nil || !regexp.MustCompile(wrappedRe).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
