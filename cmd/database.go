package cmd

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/courier-payroll/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const driverName = "pgx"

// initDB opens one pgx-backed pool and exposes it through sqlx for report queries
// and through gorm for the repositories.
func initDB(cfg internal.DatabaseConfig, debug bool) (*sqlx.DB, *gorm.DB, error) {
	dbConn, err := sqlx.Connect(driverName, cfg.GetDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logLevel := gormlogger.Warn
	if debug {
		logLevel = gormlogger.Info
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: dbConn.DB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		_ = dbConn.Close()
		return nil, nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	slog.Info("database connected", "max_open_conns", cfg.MaxOpenConns)
	return dbConn, gormDB, nil
}
