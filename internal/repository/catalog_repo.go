package repository

import (
	"context"

	"github.com/GestharPDV/gesthar-pdv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository handles the small lookup tables that qualify products
// and variations: categories, colors, sizes, and suppliers.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	CreateColor(ctx context.Context, c *model.Color) error
	ListColors(ctx context.Context) ([]model.Color, error)
	FindColorByID(ctx context.Context, id uuid.UUID) (*model.Color, error)

	CreateSize(ctx context.Context, s *model.Size) error
	ListSizes(ctx context.Context) ([]model.Size, error)
	FindSizeByID(ctx context.Context, id uuid.UUID) (*model.Size, error)

	CreateSupplier(ctx context.Context, s *model.Supplier) error
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	FindSupplierByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) CreateCategory(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *catalogRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *catalogRepo) CreateColor(ctx context.Context, c *model.Color) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *catalogRepo) ListColors(ctx context.Context) ([]model.Color, error) {
	var out []model.Color
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *catalogRepo) FindColorByID(ctx context.Context, id uuid.UUID) (*model.Color, error) {
	var c model.Color
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *catalogRepo) CreateSize(ctx context.Context, s *model.Size) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *catalogRepo) ListSizes(ctx context.Context) ([]model.Size, error) {
	var out []model.Size
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *catalogRepo) FindSizeByID(ctx context.Context, id uuid.UUID) (*model.Size, error) {
	var s model.Size
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *catalogRepo) CreateSupplier(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *catalogRepo) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *catalogRepo) FindSupplierByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}
