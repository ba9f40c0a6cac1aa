package models

import "github.com/uptrace/bun"

// RaceError is a timestamped fault event within a race.
type RaceError struct {
	bun.BaseModel `bun:"table:errores_carrera,alias:ec"`

	ID        int64   `bun:"id,pk,autoincrement" json:"id"`
	RaceID    int64   `bun:"carrera_id,notnull" json:"carrera_id"`
	ErrorType string  `bun:"tipo_error,notnull" json:"tipo_error"`
	Timestamp float64 `bun:"tiempo_segundo,notnull" json:"tiempo_segundo"`
	Detail    string  `bun:"detalle,notnull" json:"detalle"`
}

// NewRaceError is the client-supplied part of a RaceError. RaceID is
// ignored when the error is created together with its race.
type NewRaceError struct {
	RaceID    int64
	ErrorType string
	Timestamp float64
	Detail    string
}

// Model converts the input into a row for the given race.
func (e NewRaceError) Model(raceID int64) RaceError {
	return RaceError{
		RaceID:    raceID,
		ErrorType: e.ErrorType,
		Timestamp: e.Timestamp,
		Detail:    e.Detail,
	}
}
