package repository

import (
	"context"

	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleRepository persists the sale aggregate. Canceled sales are soft-deleted
// (active=false): reads exclude them by default; pass includeInactive=true for
// the audit escape hatch.
type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*model.Sale, error)
	FindDraftByUser(ctx context.Context, userID uuid.UUID) (*model.Sale, error)
	Save(ctx context.Context, s *model.Sale) error
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)

	// Item and payment rows are only touched while the sale is DRAFT.
	CreateItem(ctx context.Context, item *model.SaleItem) error
	UpdateItem(ctx context.Context, item *model.SaleItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	CreatePayment(ctx context.Context, p *model.SalePayment) error
	DeletePayment(ctx context.Context, paymentID uuid.UUID) error

	// Transaction-scoped operations used by completion / cancellation.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	SaveTx(tx *gorm.DB, s *model.Sale) error

	// DB exposes the underlying handle for service-layer transactions.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*model.Sale, error) {
	var s model.Sale
	q := r.db.WithContext(ctx).
		Preload("Items.Variation.Product").
		Preload("Payments").
		Preload("CashRegister")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.First(&s, id).Error
	return &s, err
}

func (r *saleRepo) FindDraftByUser(ctx context.Context, userID uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Variation.Product").
		Preload("Payments").
		Where("user_id = ? AND status = ? AND active = true", userID, model.SaleDraft).
		Order("created_at DESC").
		First(&s).Error
	return &s, err
}

func (r *saleRepo) Save(ctx context.Context, s *model.Sale) error {
	// Omit associations: item/payment rows are managed through their own
	// methods; Save only persists the header (totals, status, change).
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})

	if filter.Include != "inactive" {
		q = q.Where("active = true")
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.Variation.Product").Preload("Payments").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) CreateItem(ctx context.Context, item *model.SaleItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *saleRepo) UpdateItem(ctx context.Context, item *model.SaleItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *saleRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SaleItem{}, itemID).Error
}

func (r *saleRepo) CreatePayment(ctx context.Context, p *model.SalePayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *saleRepo) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SalePayment{}, paymentID).Error
}

func (r *saleRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	// Lock the header row first, then load associations without the lock;
	// FOR UPDATE cannot be combined with the preload joins.
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
		return nil, err
	}
	err := tx.Preload("Items.Variation").Preload("Payments").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) SaveTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit(clause.Associations).Save(s).Error
}
