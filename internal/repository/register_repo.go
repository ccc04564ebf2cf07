package repository

import (
	"context"

	"github.com/GestharPDV/gesthar-pdv/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RegisterCashSummary aggregates the cash flow of one register session.
type RegisterCashSummary struct {
	CashReceived   decimal.Decimal
	ChangeGiven    decimal.Decimal
	SalesCompleted int64
}

type RegisterRepository interface {
	CreateSession(ctx context.Context, s *model.CashRegister) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error)
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.CashRegister, error)
	UpdateSession(ctx context.Context, s *model.CashRegister) error
	ListClosed(ctx context.Context, page, limit int) ([]model.CashRegister, int64, error)
	// SumCashFlow returns cash received via CASH payments on completed sales of
	// the session, the change handed out, and the count of completed sales.
	SumCashFlow(ctx context.Context, registerID uuid.UUID) (*RegisterCashSummary, error)
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) CreateSession(ctx context.Context, s *model.CashRegister) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *registerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRegister, error) {
	var s model.CashRegister
	err := r.db.WithContext(ctx).Preload("User").First(&s, id).Error
	return &s, err
}

func (r *registerRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.CashRegister, error) {
	var s model.CashRegister
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.RegisterOpen).First(&s).Error
	return &s, err
}

func (r *registerRepo) UpdateSession(ctx context.Context, s *model.CashRegister) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *registerRepo) ListClosed(ctx context.Context, page, limit int) ([]model.CashRegister, int64, error) {
	var sessions []model.CashRegister
	var total int64

	q := r.db.WithContext(ctx).Model(&model.CashRegister{}).
		Where("status = ?", model.RegisterClosed)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("User").Order("opened_at DESC").
		Offset(offset).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

func (r *registerRepo) SumCashFlow(ctx context.Context, registerID uuid.UUID) (*RegisterCashSummary, error) {
	var row struct {
		CashReceived   decimal.Decimal
		ChangeGiven    decimal.Decimal
		SalesCompleted int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE((SELECT SUM(p.amount)
			          FROM sale_payments p
			          JOIN sales s ON s.id = p.sale_id
			          WHERE s.cash_register_id = @id AND s.status = 'COMPLETED'
			            AND s.active = true AND p.method = 'CASH'), 0) AS cash_received,
			COALESCE((SELECT SUM(s.change_amount)
			          FROM sales s
			          WHERE s.cash_register_id = @id AND s.status = 'COMPLETED'
			            AND s.active = true), 0) AS change_given,
			(SELECT COUNT(*)
			 FROM sales s
			 WHERE s.cash_register_id = @id AND s.status = 'COMPLETED'
			   AND s.active = true) AS sales_completed
	`, map[string]interface{}{"id": registerID}).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &RegisterCashSummary{
		CashReceived:   row.CashReceived,
		ChangeGiven:    row.ChangeGiven,
		SalesCompleted: row.SalesCompleted,
	}, nil
}
