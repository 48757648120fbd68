package infra

import (
	"fmt"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// and then applies the SQL patches GORM cannot express — most importantly the
// partial unique index that enforces "at most one open cash session".
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by local tooling
// (cmd/seeddata) so a fresh database is usable without a separate step.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.SessaoCaixa{},
		&model.CreditoCaixa{},
		&model.Pedido{},
		&model.Fiado{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Single-open-session invariant: a partial unique index over status
		// makes a second concurrent open fail at the database even if both
		// transactions passed the application-level existence check.
		`CREATE UNIQUE INDEX IF NOT EXISTS uni_sessoes_caixa_aberta
		     ON sessoes_caixa (status)
		     WHERE status = 'aberta'`,
		// Close-time aggregation scans delivered orders in a time window.
		`CREATE INDEX IF NOT EXISTS idx_pedidos_entregues_created
		     ON pedidos (created_at)
		     WHERE status = 'ENTREGUE'`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
