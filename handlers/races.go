package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/drivetrainer/metrics"
	"github.com/padraicbc/drivetrainer/models"
)

// Pointer fields distinguish an absent value from a zero one.
type createRaceRequest struct {
	UserID          *int64             `json:"usuario_id"`
	DurationSeconds *float64           `json:"tiempo_segundos"`
	Score           *int               `json:"puntaje"`
	Passed          *bool              `json:"aprobado"`
	ErrorCount      *int               `json:"errores"`
	Notes           string             `json:"observaciones"`
	DetailedErrors  []raceErrorRequest `json:"errores_detallados"`
}

type raceErrorRequest struct {
	RaceID    *int64   `json:"carrera_id"`
	ErrorType string   `json:"tipo_error"`
	Timestamp *float64 `json:"tiempo_segundo"`
	Detail    string   `json:"detalle"`
}

func (r raceErrorRequest) complete() bool {
	return r.ErrorType != "" && r.Timestamp != nil
}

func (r raceErrorRequest) toModel() models.NewRaceError {
	e := models.NewRaceError{ErrorType: r.ErrorType, Detail: r.Detail}
	if r.RaceID != nil {
		e.RaceID = *r.RaceID
	}
	if r.Timestamp != nil {
		e.Timestamp = *r.Timestamp
	}
	return e
}

type createRaceResponse struct {
	Message string `json:"message"`
	RaceID  int64  `json:"carrera_id"`
}

// CreateRace stores a race and, when given, its detailed errors.
func (h *Handler) CreateRace(c echo.Context) error {
	var req createRaceRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(msgBadRequest)
	}
	if req.UserID == nil || req.DurationSeconds == nil || req.Score == nil || req.Passed == nil || req.ErrorCount == nil {
		return badRequest(msgMissingRaceFields)
	}
	if *req.UserID <= 0 {
		return badRequest(msgBadID)
	}

	race := models.NewRace{
		UserID:          *req.UserID,
		DurationSeconds: *req.DurationSeconds,
		Score:           *req.Score,
		Passed:          *req.Passed,
		ErrorCount:      *req.ErrorCount,
		Notes:           req.Notes,
	}
	for _, e := range req.DetailedErrors {
		if !e.complete() {
			return badRequest(msgMissingRaceFields)
		}
		race.Errors = append(race.Errors, e.toModel())
	}

	id, err := h.races.Create(c.Request().Context(), race)
	if err != nil {
		return err
	}

	metrics.RacesRecorded.WithLabelValues(strconv.FormatBool(race.Passed)).Inc()
	metrics.RaceErrorsRecorded.Add(float64(len(race.Errors)))
	return c.JSON(http.StatusCreated, createRaceResponse{Message: "Carrera guardada", RaceID: id})
}

// ListRaces returns a user's races, most recent first. No races is an empty array.
func (h *Handler) ListRaces(c echo.Context) error {
	userID, err := pathID(c, "usuario_id")
	if err != nil {
		return err
	}

	races, err := h.races.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if races == nil {
		races = []models.Race{}
	}
	return c.JSON(http.StatusOK, races)
}
