package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/drivetrainer/metrics"
	"github.com/padraicbc/drivetrainer/models"
)

type createRaceErrorsRequest struct {
	Errors []raceErrorRequest `json:"errores"`
}

// CreateRaceErrors stores a batch of race errors atomically.
func (h *Handler) CreateRaceErrors(c echo.Context) error {
	var req createRaceErrorsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(msgBadRequest)
	}
	if len(req.Errors) == 0 {
		return badRequest(msgNoRaceErrors)
	}

	batch := make([]models.NewRaceError, 0, len(req.Errors))
	for _, e := range req.Errors {
		if e.RaceID == nil || !e.complete() {
			return badRequest(msgMissingFields)
		}
		if *e.RaceID <= 0 {
			return badRequest(msgBadID)
		}
		batch = append(batch, e.toModel())
	}

	if err := h.raceErrors.CreateBatch(c.Request().Context(), batch); err != nil {
		return err
	}

	metrics.RaceErrorsRecorded.Add(float64(len(batch)))
	return c.JSON(http.StatusCreated, messageResponse{Message: "Errores guardados correctamente"})
}

// ListRaceErrors returns a race's errors in insertion order. No errors is an empty array.
func (h *Handler) ListRaceErrors(c echo.Context) error {
	raceID, err := pathID(c, "carrera_id")
	if err != nil {
		return err
	}

	errs, err := h.raceErrors.ListByRace(c.Request().Context(), raceID)
	if err != nil {
		return err
	}
	if errs == nil {
		errs = []models.RaceError{}
	}
	return c.JSON(http.StatusOK, errs)
}
