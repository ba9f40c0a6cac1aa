package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/padraicbc/drivetrainer/metrics"
	"github.com/padraicbc/drivetrainer/store"
)

type credentials struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

func bindCredentials(c echo.Context) (credentials, error) {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return creds, badRequest(msgBadRequest)
	}
	if strings.TrimSpace(creds.Nickname) == "" || creds.Password == "" {
		return creds, badRequest(msgMissingFields)
	}
	return creds, nil
}

// Register creates a user account.
func (h *Handler) Register(c echo.Context) error {
	creds, err := bindCredentials(c)
	if err != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return err
	}

	if _, err := h.users.Register(c.Request().Context(), creds.Nickname, creds.Password); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateNickname):
			metrics.Registrations.WithLabelValues("duplicate").Inc()
		case errors.Is(err, store.ErrInvalidInput):
			metrics.Registrations.WithLabelValues("invalid").Inc()
		default:
			metrics.Registrations.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.Registrations.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "Usuario registrado"})
}

// Login checks a nickname/password pair and returns the user's id.
func (h *Handler) Login(c echo.Context) error {
	creds, err := bindCredentials(c)
	if err != nil {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return err
	}

	id, err := h.users.Authenticate(c.Request().Context(), creds.Nickname, creds.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidCredentials):
			metrics.Logins.WithLabelValues("denied").Inc()
		case errors.Is(err, store.ErrInvalidInput):
			metrics.Logins.WithLabelValues("invalid").Inc()
		default:
			metrics.Logins.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.Logins.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{Message: "Login exitoso", UserID: id})
}
