package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/dmitrijs2005/medreminder/internal/logging"
	"github.com/dmitrijs2005/medreminder/internal/server/metrics"
	"github.com/dmitrijs2005/medreminder/internal/server/models"
	"github.com/dmitrijs2005/medreminder/internal/server/services"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	registerOut *services.AuthResult
	registerErr error
	loginOut    *services.AuthResult
	loginErr    error

	// token -> user id
	tokens map[string]string
	users  map[string]*models.User
	getErr error

	gotRegister services.RegisterInput
}

func (f *fakeUsers) Register(_ context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	f.gotRegister = in
	return f.registerOut, f.registerErr
}

func (f *fakeUsers) Login(context.Context, services.LoginInput) (*services.AuthResult, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) UserIDFromToken(token string) (string, error) {
	id, ok := f.tokens[token]
	if !ok {
		return "", common.ErrInvalidToken
	}
	return id, nil
}

type fakeMedicines struct {
	createUser *models.User
	createIn   services.CreateMedicineInput
	createOut  *models.Medicine
	createErr  error

	decreaseIn  services.DecreaseInput
	decreaseErr error

	schedules []models.Schedule
	list      []*models.Medicine
	getErr    error

	reminders    []*models.Reminder
	remindersErr error

	deleted   []int
	deleteErr error

	panicOnReminders bool
}

func (f *fakeMedicines) Create(_ context.Context, u *models.User, in services.CreateMedicineInput) (*models.Medicine, error) {
	f.createUser, f.createIn = u, in
	return f.createOut, f.createErr
}

func (f *fakeMedicines) Decrease(_ context.Context, in services.DecreaseInput) error {
	f.decreaseIn = in
	return f.decreaseErr
}

func (f *fakeMedicines) GetMedicine(context.Context, string) ([]models.Schedule, error) {
	return f.schedules, f.getErr
}

func (f *fakeMedicines) GetUserMedicine(context.Context, string) ([]*models.Medicine, error) {
	return f.list, f.getErr
}

func (f *fakeMedicines) GetReminders(context.Context) ([]*models.Reminder, error) {
	if f.panicOnReminders {
		panic("boom")
	}
	return f.reminders, f.remindersErr
}

func (f *fakeMedicines) Delete(_ context.Context, c int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, c)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

var errBoom = errors.New("boom")

type fixture struct {
	srv       *Server
	handler   http.Handler
	users     *fakeUsers
	medicines *fakeMedicines
	pinger    *fakePinger
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T, deviceKey string) *fixture {
	t.Helper()
	f := &fixture{
		users: &fakeUsers{
			tokens: map[string]string{"good": "user-000000001", "orphan": "user-gone"},
			users:  map[string]*models.User{"user-000000001": {ID: "user-000000001", Name: "Ann"}},
		},
		medicines: &fakeMedicines{},
		pinger:    &fakePinger{},
		metrics:   metrics.New(),
	}
	f.srv = NewServer("127.0.0.1:0", logging.Nop{}, f.users, f.medicines, f.pinger, f.metrics, deviceKey)
	f.handler = f.srv.Handler()
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}
