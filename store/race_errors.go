package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/padraicbc/drivetrainer/models"
)

// RaceErrors is the race error store.
type RaceErrors struct {
	db bun.IDB
	settings
}

// NewRaceErrors returns a race error store on db.
func NewRaceErrors(db bun.IDB, opts ...Option) *RaceErrors {
	return &RaceErrors{db: db, settings: newSettings(opts)}
}

// CreateBatch stores errors, possibly for several races, in one transaction.
// An empty batch is rejected.
func (s *RaceErrors) CreateBatch(ctx context.Context, errs []models.NewRaceError) error {
	if len(errs) == 0 {
		return invalidInput("no errors supplied")
	}

	rows := make([]models.RaceError, len(errs))
	for i, e := range errs {
		if e.RaceID <= 0 {
			return invalidInput("errores[%d]: carrera_id must be a positive id", i)
		}
		if err := validateErrorFields(e); err != nil {
			return fmt.Errorf("errores[%d]: %w", i, err)
		}
		rows[i] = e.Model(e.RaceID)
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return insertRaceErrors(ctx, tx, rows)
	})
}

// ListByRace returns the race's errors in insertion order.
func (s *RaceErrors) ListByRace(ctx context.Context, raceID int64) ([]models.RaceError, error) {
	if raceID <= 0 {
		return nil, invalidInput("carrera_id must be a positive id")
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	errs := make([]models.RaceError, 0)
	err := s.db.NewSelect().
		Model(&errs).
		Where("ec.carrera_id = ?", raceID).
		OrderExpr("ec.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing errors for race %d: %w", raceID, err)
	}
	return errs, nil
}

func validateErrorFields(e models.NewRaceError) error {
	if strings.TrimSpace(e.ErrorType) == "" {
		return invalidInput("tipo_error is required")
	}
	return nil
}

func insertRaceErrors(ctx context.Context, db bun.IDB, rows []models.RaceError) error {
	if _, err := db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return referenceError("inserting race errors", err)
	}
	return nil
}
