package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/drivetrainer/config"
)

// Setup opens a connection to the configured PostgreSQL or MySQL database.
// Dial and statement timeouts come from the config; nothing is left unbounded.
func Setup(cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB

	switch cfg.DBDriver {
	case config.DriverMySQL:
		sqldb, err := OpenMySQL(cfg.MySQLDSN(), cfg.DBDialTimeout, cfg.DBStatementTimeout)
		if err != nil {
			return nil, err
		}
		db = bun.NewDB(sqldb, mysqldialect.New())
	default:
		sqldb := sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithDSN(cfg.PostgresDSN()),
			pgdriver.WithDialTimeout(cfg.DBDialTimeout),
			pgdriver.WithReadTimeout(cfg.DBStatementTimeout),
			pgdriver.WithWriteTimeout(cfg.DBStatementTimeout),
			pgdriver.WithConnParams(map[string]interface{}{
				"statement_timeout": cfg.DBStatementTimeout.Milliseconds(),
			}),
		))
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBDialTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", cfg.DBDriver, err)
	}

	return db, nil
}

// OpenMySQL opens a plain database/sql handle for a MySQL DSN, forcing
// time parsing in UTC and the given timeouts.
func OpenMySQL(dsn string, dial, statement time.Duration) (*sql.DB, error) {
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = dial
	mc.ReadTimeout = statement
	mc.WriteTimeout = statement

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}
