package infra

import (
	"fmt"
	"time"

	"farmacierre/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the PostgreSQL connection, runs AutoMigrate for every
// table and then applies the idempotent SQL patches GORM cannot express
// (partial indexes, check constraints). In development slow queries are
// logged as warnings.
func NewDatabase(dsn string, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), Config(debug))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrar(db); err != nil {
		return nil, err
	}
	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}
	return db, nil
}

// Config is the GORM configuration shared by the server and the tests.
// TranslateError turns unique violations into gorm.ErrDuplicatedKey.
func Config(debug bool) *gorm.Config {
	lvl := logger.Silent
	if debug {
		lvl = logger.Warn
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(&log.Logger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  lvl,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Migrar creates or updates all tables. It is portable across PostgreSQL and SQLite.
func Migrar(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Distrito{},
		&model.Sucursal{},
		&model.Turno{},
		&model.Cuenta{},
		&model.RegistroTurno{},
		&model.MetaMensual{},
		&model.Usuario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return nil
}

// applySchemaPatches runs PostgreSQL-only DDL. Each statement is guarded so
// re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// deposit reports filter on account + positive amount
		`CREATE INDEX IF NOT EXISTS idx_registros_deposito
		    ON registros_turno (cuenta_id, fecha)
		    WHERE cuenta_id IS NOT NULL AND monto_depositado > 0`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_metas_mes') THEN
		    ALTER TABLE metas_mensuales
		      ADD CONSTRAINT chk_metas_mes CHECK (mes BETWEEN 1 AND 12);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_metas_monto') THEN
		    ALTER TABLE metas_mensuales
		      ADD CONSTRAINT chk_metas_monto CHECK (meta >= 0);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
