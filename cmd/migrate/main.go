// cmd/migrate/main.go
// Copies the legacy MySQL arduino_drive_trainer data into the configured database.
//
// Usage:
//
//	LEGACY_MYSQL_DSN="user:pass@tcp(host:3306)/arduino_drive_trainer" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.uber.org/zap"

	"github.com/padraicbc/drivetrainer/config"
	"github.com/padraicbc/drivetrainer/db"
	applog "github.com/padraicbc/drivetrainer/logger"
	"github.com/padraicbc/drivetrainer/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.LegacyMySQLDSN == "" {
		logger.Fatal("LEGACY_MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/arduino_drive_trainer")
	}

	// --- legacy MySQL ---
	legacy, err := db.OpenMySQL(cfg.LegacyMySQLDSN, cfg.DBDialTimeout, cfg.DBStatementTimeout)
	if err != nil {
		logger.Fatal("open legacy mysql", zap.Error(err))
	}
	defer legacy.Close()
	legacy.SetMaxOpenConns(4)
	if err := legacy.PingContext(ctx); err != nil {
		logger.Fatal("ping legacy mysql", zap.Error(err))
	}
	logger.Info("connected to legacy MySQL")

	// --- target ---
	target, err := db.Setup(cfg)
	if err != nil {
		logger.Fatal("open target database", zap.Error(err))
	}
	defer target.Close()
	if err := db.Migrate(ctx, target); err != nil {
		logger.Fatal("migrate schema", zap.Error(err))
	}
	logger.Info("connected to target", zap.String("driver", cfg.DBDriver))

	// Parents first so foreign keys hold throughout.
	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"usuarios", func() (int, error) { return migrateUsers(ctx, legacy, target) }},
		{"carreras", func() (int, error) { return migrateRaces(ctx, legacy, target) }},
		{"errores_carrera", func() (int, error) { return migrateRaceErrors(ctx, legacy, target) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			logger.Fatal("migrate table", zap.String("table", s.name), zap.Error(err))
		}
		logger.Info("table migrated", zap.String("table", s.name), zap.Int("rows", n))
	}

	if err := resetSequences(ctx, target); err != nil {
		logger.Fatal("reset sequences", zap.Error(err))
	}
	logger.Info("migration complete")
}

// --- helpers ---

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, dst *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := dst.NewInsert().Model(&rows).Ignore().Exec(ctx)
	return err
}

// copyRows streams query results from the legacy database into dst in batches.
func copyRows[T any](ctx context.Context, src *sql.DB, dst *bun.DB, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := src.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	batch := make([]T, 0, batchSize)
	total := 0
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, dst, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := bulkInsert(ctx, dst, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

// --- per-table migrations ---

func migrateUsers(ctx context.Context, src *sql.DB, dst *bun.DB) (int, error) {
	return copyRows(ctx, src, dst,
		"SELECT id, nickname, password FROM usuarios ORDER BY id",
		func(rows *sql.Rows) (models.User, error) {
			var u models.User
			err := rows.Scan(&u.ID, &u.Nickname, &u.Password)
			return u, err
		})
}

// Orphaned legacy rows are left behind by the joins.
func migrateRaces(ctx context.Context, src *sql.DB, dst *bun.DB) (int, error) {
	return copyRows(ctx, src, dst, `
		SELECT c.id, c.usuario_id, c.tiempo_segundos, c.puntaje, c.aprobado, c.errores, c.observaciones, c.fecha
		FROM carreras c JOIN usuarios u ON u.id = c.usuario_id
		ORDER BY c.id`,
		func(rows *sql.Rows) (models.Race, error) {
			var (
				r        models.Race
				duration sql.NullFloat64
				score    sql.NullInt64
				passed   sql.NullBool
				count    sql.NullInt64
				notes    sql.NullString
				at       sql.NullTime
			)
			if err := rows.Scan(&r.ID, &r.UserID, &duration, &score, &passed, &count, &notes, &at); err != nil {
				return r, err
			}
			r.DurationSeconds = duration.Float64
			r.Score = int(score.Int64)
			r.Passed = passed.Bool
			r.ErrorCount = int(count.Int64)
			r.Notes = notes.String
			r.CreatedAt = at.Time.UTC()
			if !at.Valid {
				r.CreatedAt = time.Now().UTC()
			}
			return r, nil
		})
}

func migrateRaceErrors(ctx context.Context, src *sql.DB, dst *bun.DB) (int, error) {
	return copyRows(ctx, src, dst, `
		SELECT e.id, e.carrera_id, e.tipo_error, e.tiempo_segundo, e.detalle
		FROM errores_carrera e
		JOIN carreras c ON c.id = e.carrera_id
		JOIN usuarios u ON u.id = c.usuario_id
		ORDER BY e.id`,
		func(rows *sql.Rows) (models.RaceError, error) {
			var (
				e         models.RaceError
				errorType sql.NullString
				second    sql.NullFloat64
				detail    sql.NullString
			)
			if err := rows.Scan(&e.ID, &e.RaceID, &errorType, &second, &detail); err != nil {
				return e, err
			}
			e.ErrorType = errorType.String
			e.Timestamp = second.Float64
			e.Detail = detail.String
			return e, nil
		})
}

// resetSequences moves PostgreSQL identity sequences past the copied ids.
// MySQL advances AUTO_INCREMENT on its own.
func resetSequences(ctx context.Context, dst *bun.DB) error {
	if dst.Dialect().Name() != dialect.PG {
		return nil
	}
	for _, table := range []string{"usuarios", "carreras", "errores_carrera"} {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM %s",
			table, table,
		)
		if _, err := dst.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
	return nil
}
