package handlers_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/drivetrainer/handlers"
	"github.com/padraicbc/drivetrainer/models"
)

// fakeUsers is an in-memory stand-in for the credential store.
type fakeUsers struct {
	RegisterFn     func(ctx context.Context, nickname, password string) (int64, error)
	AuthenticateFn func(ctx context.Context, nickname, password string) (int64, error)
}

func (f *fakeUsers) Register(ctx context.Context, nickname, password string) (int64, error) {
	if f.RegisterFn != nil {
		return f.RegisterFn(ctx, nickname, password)
	}
	return 1, nil
}

func (f *fakeUsers) Authenticate(ctx context.Context, nickname, password string) (int64, error) {
	if f.AuthenticateFn != nil {
		return f.AuthenticateFn(ctx, nickname, password)
	}
	return 1, nil
}

type fakeRaces struct {
	CreateFn     func(ctx context.Context, race models.NewRace) (int64, error)
	ListByUserFn func(ctx context.Context, userID int64) ([]models.Race, error)
}

func (f *fakeRaces) Create(ctx context.Context, race models.NewRace) (int64, error) {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, race)
	}
	return 1, nil
}

func (f *fakeRaces) ListByUser(ctx context.Context, userID int64) ([]models.Race, error) {
	if f.ListByUserFn != nil {
		return f.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

type fakeRaceErrors struct {
	CreateBatchFn func(ctx context.Context, errs []models.NewRaceError) error
	ListByRaceFn  func(ctx context.Context, raceID int64) ([]models.RaceError, error)
}

func (f *fakeRaceErrors) CreateBatch(ctx context.Context, errs []models.NewRaceError) error {
	if f.CreateBatchFn != nil {
		return f.CreateBatchFn(ctx, errs)
	}
	return nil
}

func (f *fakeRaceErrors) ListByRace(ctx context.Context, raceID int64) ([]models.RaceError, error) {
	if f.ListByRaceFn != nil {
		return f.ListByRaceFn(ctx, raceID)
	}
	return nil, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fakes struct {
	users      *fakeUsers
	races      *fakeRaces
	raceErrors *fakeRaceErrors
	db         fakePinger
}

func newFakes() *fakes {
	return &fakes{users: &fakeUsers{}, races: &fakeRaces{}, raceErrors: &fakeRaceErrors{}}
}

func (f *fakes) server() *echo.Echo {
	return newServer(handlers.New(f.users, f.races, f.raceErrors, f.db, zap.NewNop()))
}

func newServer(h *handlers.Handler) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = handlers.ErrorHandler(zap.NewNop())
	h.Routes(e)
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}
