package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/drivetrainer/models"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*models.User)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("create usuarios: %w", err)
			}

			// Deleting a user removes their races, and a race its errors.
			if _, err := tx.NewCreateTable().
				Model((*models.Race)(nil)).
				IfNotExists().
				ForeignKey("(?) REFERENCES ? (?) ON DELETE CASCADE",
					bun.Ident("usuario_id"), bun.Ident("usuarios"), bun.Ident("id")).
				Exec(ctx); err != nil {
				return fmt.Errorf("create carreras: %w", err)
			}

			if _, err := tx.NewCreateTable().
				Model((*models.RaceError)(nil)).
				IfNotExists().
				ForeignKey("(?) REFERENCES ? (?) ON DELETE CASCADE",
					bun.Ident("carrera_id"), bun.Ident("carreras"), bun.Ident("id")).
				Exec(ctx); err != nil {
				return fmt.Errorf("create errores_carrera: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*models.Race)(nil)).
				Index("carreras_usuario_fecha_idx").
				Column("usuario_id", "fecha").
				Exec(ctx); err != nil {
				return fmt.Errorf("index carreras: %w", err)
			}

			if _, err := tx.NewCreateIndex().
				Model((*models.RaceError)(nil)).
				Index("errores_carrera_carrera_idx").
				Column("carrera_id").
				Exec(ctx); err != nil {
				return fmt.Errorf("index errores_carrera: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []interface{}{
				(*models.RaceError)(nil),
				(*models.Race)(nil),
				(*models.User)(nil),
			} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
					return fmt.Errorf("drop %T: %w", model, err)
				}
			}
			return nil
		})
	})
}
