package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Race is one recorded driving-training attempt.
type Race struct {
	bun.BaseModel `bun:"table:carreras,alias:c"`

	ID              int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID          int64     `bun:"usuario_id,notnull" json:"usuario_id"`
	DurationSeconds float64   `bun:"tiempo_segundos,notnull" json:"tiempo_segundos"`
	Score           int       `bun:"puntaje,notnull" json:"puntaje"`
	Passed          bool      `bun:"aprobado,notnull" json:"aprobado"`
	ErrorCount      int       `bun:"errores,notnull" json:"errores"`
	Notes           string    `bun:"observaciones,notnull" json:"observaciones"`
	CreatedAt       time.Time `bun:"fecha,notnull" json:"fecha"`
}

// NewRace carries the fields a client supplies for a race. Errors are the
// detailed fault events stored together with the race.
type NewRace struct {
	UserID          int64
	DurationSeconds float64
	Score           int
	Passed          bool
	ErrorCount      int
	Notes           string
	Errors          []NewRaceError
}
