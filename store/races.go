package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/drivetrainer/models"
)

// Races is the race record store.
type Races struct {
	db bun.IDB
	settings
}

// NewRaces returns a race record store on db.
func NewRaces(db bun.IDB, opts ...Option) *Races {
	return &Races{db: db, settings: newSettings(opts)}
}

// Create stores a race stamped with the current time together with its
// detailed errors. Either everything is committed or nothing is.
func (r *Races) Create(ctx context.Context, in models.NewRace) (int64, error) {
	if in.UserID <= 0 {
		return 0, invalidInput("usuario_id must be a positive id")
	}
	for i, e := range in.Errors {
		if err := validateErrorFields(e); err != nil {
			return 0, fmt.Errorf("errores_detallados[%d]: %w", i, err)
		}
	}

	race := &models.Race{
		UserID:          in.UserID,
		DurationSeconds: in.DurationSeconds,
		Score:           in.Score,
		Passed:          in.Passed,
		ErrorCount:      in.ErrorCount,
		Notes:           in.Notes,
		CreatedAt:       r.now().UTC(),
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(race).Exec(ctx); err != nil {
			return referenceError("inserting race", err)
		}
		if len(in.Errors) == 0 {
			return nil
		}
		rows := make([]models.RaceError, len(in.Errors))
		for i, e := range in.Errors {
			rows[i] = e.Model(race.ID)
		}
		return insertRaceErrors(ctx, tx, rows)
	})
	if err != nil {
		return 0, err
	}
	return race.ID, nil
}

// ListByUser returns the user's races, most recent first. A user without
// races, or an unknown user, yields an empty slice.
func (r *Races) ListByUser(ctx context.Context, userID int64) ([]models.Race, error) {
	if userID <= 0 {
		return nil, invalidInput("usuario_id must be a positive id")
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	races := make([]models.Race, 0)
	err := r.db.NewSelect().
		Model(&races).
		Where("c.usuario_id = ?", userID).
		OrderExpr("c.fecha DESC").
		OrderExpr("c.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing races for user %d: %w", userID, err)
	}
	return races, nil
}
