package infra

import (
	"fmt"

	"github.com/GestharPDV/gesthar-pdv/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Map driver unique-violation errors to gorm.ErrDuplicatedKey so
		// services can react without parsing SQLSTATE codes.
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

// RunMigrations creates the schema. Also used by integration tests against
// throwaway containers.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Address{},
		&model.Category{},
		&model.Color{},
		&model.Size{},
		&model.Supplier{},
		&model.Product{},
		&model.ProductVariation{},
		&model.StockMovement{},
		&model.CashRegister{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SalePayment{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded by an existence check so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// One OPEN cash register session per operator. A plain unique index on
		// user_id would block reopening after close; the partial index only
		// covers OPEN rows.
		{"partial unique index: one open register per user", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_one_open_register_per_user') THEN
    CREATE UNIQUE INDEX idx_one_open_register_per_user
        ON cash_registers (user_id)
        WHERE status = 'OPEN';
  END IF;
END $$`},
		// Movement listing is always newest-first per variation.
		{"stock movement listing index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_movements_variation_created') THEN
    CREATE INDEX idx_stock_movements_variation_created
        ON stock_movements (variation_id, created_at DESC);
  END IF;
END $$`},
		// The register report aggregates payments by sale; keep the join cheap.
		{"sale payments by sale index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sale_payments_sale') THEN
    CREATE INDEX idx_sale_payments_sale
        ON sale_payments (sale_id);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
