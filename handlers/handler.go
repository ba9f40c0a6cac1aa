package handlers

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/padraicbc/drivetrainer/models"
)

// Credentials registers and authenticates users.
type Credentials interface {
	Register(ctx context.Context, nickname, password string) (int64, error)
	Authenticate(ctx context.Context, nickname, password string) (int64, error)
}

// RaceRecords stores and lists races.
type RaceRecords interface {
	Create(ctx context.Context, race models.NewRace) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Race, error)
}

// RaceErrorRecords stores and lists race error events.
type RaceErrorRecords interface {
	CreateBatch(ctx context.Context, errs []models.NewRaceError) error
	ListByRace(ctx context.Context, raceID int64) ([]models.RaceError, error)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	users      Credentials
	races      RaceRecords
	raceErrors RaceErrorRecords
	db         Pinger
	log        *zap.Logger
}

// New creates a Handler backed by the given stores.
func New(users Credentials, races RaceRecords, raceErrors RaceErrorRecords, db Pinger, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{users: users, races: races, raceErrors: raceErrors, db: db, log: log}
}

// Routes mounts every endpoint on e.
func (h *Handler) Routes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/register", h.Register)
	e.POST("/login", h.Login)

	e.POST("/carreras", h.CreateRace)
	e.GET("/carreras/:usuario_id", h.ListRaces)

	e.POST("/errores_carrera", h.CreateRaceErrors)
	e.GET("/errores_carrera/:carrera_id", h.ListRaceErrors)
}
