package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/drivetrainer/metrics"
	"github.com/padraicbc/drivetrainer/models"
	"github.com/padraicbc/drivetrainer/store"
)

func TestCreateRace(t *testing.T) {
	f := newFakes()
	var got models.NewRace
	f.races.CreateFn = func(_ context.Context, race models.NewRace) (int64, error) {
		got = race
		return 5, nil
	}
	before := testutil.ToFloat64(metrics.RacesRecorded.WithLabelValues("true"))

	rec := do(f.server(), http.MethodPost, "/carreras", `{
		"usuario_id": 1, "tiempo_segundos": 95.5, "puntaje": 87, "aprobado": true, "errores": 3,
		"observaciones": "Buena conducción, pero falló en curva final.",
		"errores_detallados": [
			{"tipo_error": "Velocidad excesiva", "tiempo_segundo": 45.2, "detalle": "Excedió límite de velocidad en zona escolar"},
			{"tipo_error": "Colisión", "tiempo_segundo": 60}
		]
	}`)

	mustStatus(t, rec, http.StatusCreated)
	assert.JSONEq(t, `{"message":"Carrera guardada","carrera_id":5}`, rec.Body.String())
	assert.Equal(t, models.NewRace{
		UserID:          1,
		DurationSeconds: 95.5,
		Score:           87,
		Passed:          true,
		ErrorCount:      3,
		Notes:           "Buena conducción, pero falló en curva final.",
		Errors: []models.NewRaceError{
			{ErrorType: "Velocidad excesiva", Timestamp: 45.2, Detail: "Excedió límite de velocidad en zona escolar"},
			{ErrorType: "Colisión", Timestamp: 60},
		},
	}, got)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RacesRecorded.WithLabelValues("true")))
}

func TestCreateRaceZeroValuesArePresent(t *testing.T) {
	f := newFakes()
	called := false
	f.races.CreateFn = func(_ context.Context, race models.NewRace) (int64, error) {
		called = true
		assert.Zero(t, race.Score)
		assert.False(t, race.Passed)
		return 1, nil
	}

	rec := do(f.server(), http.MethodPost, "/carreras",
		`{"usuario_id": 3, "tiempo_segundos": 0, "puntaje": 0, "aprobado": false, "errores": 0}`)

	mustStatus(t, rec, http.StatusCreated)
	assert.True(t, called)
}

func TestCreateRaceMissingFields(t *testing.T) {
	full := map[string]string{
		"usuario_id":      `1`,
		"tiempo_segundos": `95.5`,
		"puntaje":         `87`,
		"aprobado":        `true`,
		"errores":         `3`,
	}
	for missing := range full {
		t.Run(missing, func(t *testing.T) {
			body := "{"
			sep := ""
			for k, v := range full {
				if k == missing {
					continue
				}
				body += fmt.Sprintf(`%s"%s":%s`, sep, k, v)
				sep = ","
			}
			body += "}"

			f := newFakes()
			f.races.CreateFn = func(context.Context, models.NewRace) (int64, error) {
				t.Fatal("store must not be called")
				return 0, nil
			}

			rec := do(f.server(), http.MethodPost, "/carreras", body)

			mustStatus(t, rec, http.StatusBadRequest)
			assert.JSONEq(t, `{"error":"Faltan datos para guardar la carrera"}`, rec.Body.String())
		})
	}
}

func TestCreateRaceNullFieldIsMissing(t *testing.T) {
	rec := do(newFakes().server(), http.MethodPost, "/carreras",
		`{"usuario_id": 1, "tiempo_segundos": null, "puntaje": 87, "aprobado": true, "errores": 3}`)

	mustStatus(t, rec, http.StatusBadRequest)
}

func TestCreateRaceRejectsZeroUser(t *testing.T) {
	rec := do(newFakes().server(), http.MethodPost, "/carreras",
		`{"usuario_id": 0, "tiempo_segundos": 1, "puntaje": 1, "aprobado": true, "errores": 0}`)

	mustStatus(t, rec, http.StatusBadRequest)
	assert.JSONEq(t, `{"error":"Identificador inválido"}`, rec.Body.String())
}

func TestCreateRaceIncompleteDetailedError(t *testing.T) {
	rec := do(newFakes().server(), http.MethodPost, "/carreras", `{
		"usuario_id": 1, "tiempo_segundos": 1, "puntaje": 1, "aprobado": true, "errores": 1,
		"errores_detallados": [{"tipo_error": "Colisión"}]
	}`)

	mustStatus(t, rec, http.StatusBadRequest)
}

func TestCreateRaceUnknownUser(t *testing.T) {
	f := newFakes()
	f.races.CreateFn = func(context.Context, models.NewRace) (int64, error) {
		return 0, fmt.Errorf("inserting race: %w", store.ErrUnknownReference)
	}

	rec := do(f.server(), http.MethodPost, "/carreras",
		`{"usuario_id": 99, "tiempo_segundos": 1, "puntaje": 1, "aprobado": true, "errores": 0}`)

	mustStatus(t, rec, http.StatusBadRequest)
	assert.JSONEq(t, `{"error":"El usuario o la carrera indicados no existen"}`, rec.Body.String())
}

func TestListRaces(t *testing.T) {
	f := newFakes()
	at := time.Date(2025, 5, 27, 21, 0, 0, 0, time.UTC)
	f.races.ListByUserFn = func(_ context.Context, userID int64) ([]models.Race, error) {
		require.Equal(t, int64(1), userID)
		return []models.Race{
			{ID: 10, UserID: 1, DurationSeconds: 92.3, Score: 89, Passed: true, ErrorCount: 2, Notes: "Muy buena carrera", CreatedAt: at},
		}, nil
	}

	rec := do(f.server(), http.MethodGet, "/carreras/1", "")

	mustStatus(t, rec, http.StatusOK)
	assert.JSONEq(t, `[{
		"id": 10, "usuario_id": 1, "tiempo_segundos": 92.3, "puntaje": 89, "aprobado": true,
		"errores": 2, "observaciones": "Muy buena carrera", "fecha": "2025-05-27T21:00:00Z"
	}]`, rec.Body.String())
}

func TestListRacesEmptyIsArray(t *testing.T) {
	rec := do(newFakes().server(), http.MethodGet, "/carreras/1", "")

	mustStatus(t, rec, http.StatusOK)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListRacesBadID(t *testing.T) {
	for _, id := range []string{"abc", "0", "-3"} {
		rec := do(newFakes().server(), http.MethodGet, "/carreras/"+id, "")
		mustStatus(t, rec, http.StatusBadRequest)
	}
}
