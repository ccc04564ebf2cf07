package repository

import (
	"context"

	"github.com/GestharPDV/gesthar-pdv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VariationRepository is the data access contract for product variations.
// The stock column is only ever written through UpdateStockTx while the row
// lock from FindByIDForUpdate is held — callers outside a stock movement must
// never touch it.
type VariationRepository interface {
	Create(ctx context.Context, v *model.ProductVariation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error)
	FindBySKU(ctx context.Context, sku string) (*model.ProductVariation, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductVariation, error)
	ListBelowMinimum(ctx context.Context) ([]model.ProductVariation, error)
	Update(ctx context.Context, v *model.ProductVariation) error

	// FindByIDForUpdate acquires a SELECT ... FOR UPDATE row lock scoped to tx.
	// Concurrent stock mutations on the same variation serialize here.
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ProductVariation, error)
	// UpdateStockTx sets the absolute stock value inside tx.
	UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock int64) error

	// DB exposes the underlying handle so services can open transactions.
	DB() *gorm.DB
}

type variationRepo struct{ db *gorm.DB }

func NewVariationRepository(db *gorm.DB) VariationRepository { return &variationRepo{db: db} }

func (r *variationRepo) DB() *gorm.DB { return r.db }

func (r *variationRepo) Create(ctx context.Context, v *model.ProductVariation) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *variationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	var v model.ProductVariation
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Color").Preload("Size").
		First(&v, id).Error
	return &v, err
}

func (r *variationRepo) FindBySKU(ctx context.Context, sku string) (*model.ProductVariation, error) {
	var v model.ProductVariation
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Color").Preload("Size").
		Where("sku = ?", sku).First(&v).Error
	return &v, err
}

func (r *variationRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductVariation, error) {
	var out []model.ProductVariation
	err := r.db.WithContext(ctx).
		Preload("Color").Preload("Size").
		Where("product_id = ?", productID).Order("sku ASC").Find(&out).Error
	return out, err
}

func (r *variationRepo) ListBelowMinimum(ctx context.Context) ([]model.ProductVariation, error) {
	var out []model.ProductVariation
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("stock <= minimum_stock").Order("sku ASC").Find(&out).Error
	return out, err
}

func (r *variationRepo) Update(ctx context.Context, v *model.ProductVariation) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *variationRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ProductVariation, error) {
	var v model.ProductVariation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error
	return &v, err
}

func (r *variationRepo) UpdateStockTx(tx *gorm.DB, id uuid.UUID, stock int64) error {
	return tx.Model(&model.ProductVariation{}).Where("id = ?", id).Update("stock", stock).Error
}
