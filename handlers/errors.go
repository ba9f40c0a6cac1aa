package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/drivetrainer/store"
)

// Client-facing messages. Internal details are only logged.
const (
	msgMissingFields      = "Faltan datos"
	msgMissingRaceFields  = "Faltan datos para guardar la carrera"
	msgNoRaceErrors       = "No se enviaron errores"
	msgBadRequest         = "Solicitud inválida"
	msgBadID              = "Identificador inválido"
	msgDuplicateNickname  = "El nickname ya existe"
	msgInvalidCredentials = "Credenciales inválidas"
	msgUnknownReference   = "El usuario o la carrera indicados no existen"
	msgInternal           = "Error interno del servidor"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders every failure as {"error": "..."} with the status
// matching the store failure. Unclassified errors become a generic 500.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Error(err),
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, errorResponse{Error: msg})
		}
		if werr != nil {
			log.Warn("writing error response", zap.Error(werr))
		}
	}
}

func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest, msgBadRequest
	case errors.Is(err, store.ErrUnknownReference):
		return http.StatusBadRequest, msgUnknownReference
	case errors.Is(err, store.ErrDuplicateNickname):
		return http.StatusConflict, msgDuplicateNickname
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.As(err, &he):
		if he.Code >= http.StatusInternalServerError {
			return he.Code, msgInternal
		}
		return he.Code, fmt.Sprint(he.Message)
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest(msgBadID)
	}
	return id, nil
}
