package service

import (
	"context"
	"errors"
	"time"

	"github.com/GestharPDV/gesthar-pdv/internal/domerr"
	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/model"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockService is the only writer of variation stock. Every mutation locks
// the variation row, adjusts the counter, and appends one immutable movement
// inside a single transaction, so the ledger and the counter never diverge
// and stock never goes negative.
type StockService interface {
	AddStock(ctx context.Context, req AddStockParams) (*dto.VariationSnapshot, error)
	RemoveStock(ctx context.Context, req RemoveStockParams) (*dto.VariationSnapshot, error)

	// Tx variants participate in a caller-owned transaction; used by the sale
	// completion/cancellation flow so its stock mutations commit atomically
	// with the sale state transition.
	AddStockTx(tx *gorm.DB, req AddStockParams) (*dto.VariationSnapshot, error)
	RemoveStockTx(tx *gorm.DB, req RemoveStockParams) (*dto.VariationSnapshot, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	LowStock(ctx context.Context) ([]dto.LowStockAlertResponse, error)
}

// AddStockParams describes an inbound movement.
type AddStockParams struct {
	VariationID uuid.UUID
	Quantity    int64
	UserID      uuid.UUID
	UnitPrice   *decimal.Decimal
	Type        model.MovementType
	Notes       *string
	ReferenceID *uuid.UUID
}

// RemoveStockParams describes an outbound movement.
type RemoveStockParams struct {
	VariationID uuid.UUID
	Quantity    int64
	UserID      uuid.UUID
	Type        model.MovementType
	Notes       *string
	ReferenceID *uuid.UUID
}

type stockService struct {
	variations repository.VariationRepository
	movements  repository.StockMovementRepository
}

func NewStockService(variations repository.VariationRepository, movements repository.StockMovementRepository) StockService {
	return &stockService{variations: variations, movements: movements}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *stockService) AddStock(ctx context.Context, req AddStockParams) (*dto.VariationSnapshot, error) {
	var snap *dto.VariationSnapshot
	err := runTx(ctx, s.variations.DB(), func(tx *gorm.DB) error {
		var txErr error
		snap, txErr = s.AddStockTx(tx, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *stockService) AddStockTx(tx *gorm.DB, req AddStockParams) (*dto.VariationSnapshot, error) {
	if !req.Type.Inbound() {
		return nil, domerr.ErrInvalidMovementType
	}
	if req.Quantity <= 0 {
		return nil, domerr.ErrInvalidQuantity
	}
	if req.UnitPrice == nil || !req.UnitPrice.IsPositive() {
		return nil, domerr.ErrUnitPriceRequired
	}

	variation, err := s.variations.FindByIDForUpdate(tx, req.VariationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrVariationNotFound
		}
		return nil, err
	}

	newStock := variation.Stock + req.Quantity
	if err := s.variations.UpdateStockTx(tx, variation.ID, newStock); err != nil {
		return nil, err
	}

	movement := &model.StockMovement{
		VariationID: variation.ID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Notes:       req.Notes,
		UserID:      req.UserID,
		ReferenceID: req.ReferenceID,
	}
	if err := s.movements.CreateTx(tx, movement); err != nil {
		return nil, err
	}

	return &dto.VariationSnapshot{
		ID:           variation.ID.String(),
		SKU:          variation.SKU,
		Stock:        newStock,
		MinimumStock: variation.MinimumStock,
	}, nil
}

func (s *stockService) RemoveStock(ctx context.Context, req RemoveStockParams) (*dto.VariationSnapshot, error) {
	var snap *dto.VariationSnapshot
	err := runTx(ctx, s.variations.DB(), func(tx *gorm.DB) error {
		var txErr error
		snap, txErr = s.RemoveStockTx(tx, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *stockService) RemoveStockTx(tx *gorm.DB, req RemoveStockParams) (*dto.VariationSnapshot, error) {
	if !req.Type.Outbound() {
		return nil, domerr.ErrInvalidMovementType
	}
	if req.Quantity <= 0 {
		return nil, domerr.ErrInvalidQuantity
	}

	variation, err := s.variations.FindByIDForUpdate(tx, req.VariationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrVariationNotFound
		}
		return nil, err
	}

	if variation.Stock < req.Quantity {
		return nil, &domerr.InsufficientStockError{
			SKU:       variation.SKU,
			Available: variation.Stock,
			Requested: req.Quantity,
		}
	}

	newStock := variation.Stock - req.Quantity
	if err := s.variations.UpdateStockTx(tx, variation.ID, newStock); err != nil {
		return nil, err
	}

	movement := &model.StockMovement{
		VariationID: variation.ID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
		UserID:      req.UserID,
		ReferenceID: req.ReferenceID,
	}
	if err := s.movements.CreateTx(tx, movement); err != nil {
		return nil, err
	}

	return &dto.VariationSnapshot{
		ID:           variation.ID.String(),
		SKU:          variation.SKU,
		Stock:        newStock,
		MinimumStock: variation.MinimumStock,
	}, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	repoFilter := repository.MovementFilter{
		Type:  model.MovementType(filter.Type),
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.VariationID != "" {
		id, err := uuid.Parse(filter.VariationID)
		if err != nil {
			return nil, domerr.ErrVariationNotFound
		}
		repoFilter.VariationID = &id
	}
	if filter.From != "" {
		if t, err := time.Parse("2006-01-02", filter.From); err == nil {
			repoFilter.From = &t
		}
	}
	if filter.To != "" {
		if t, err := time.Parse("2006-01-02", filter.To); err == nil {
			// Exclusive upper bound: include the whole "to" day.
			end := t.AddDate(0, 0, 1)
			repoFilter.To = &end
		}
	}

	movements, total, err := s.movements.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		skuCode := ""
		if m.Variation != nil {
			skuCode = m.Variation.SKU
		}
		items = append(items, dto.MovementResponse{
			ID:        m.ID.String(),
			SKU:       skuCode,
			Type:      string(m.Type),
			Quantity:  m.Quantity,
			UnitPrice: m.UnitPrice,
			Notes:     m.Notes,
			UserID:    m.UserID.String(),
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}

	return &dto.MovementListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *stockService) LowStock(ctx context.Context) ([]dto.LowStockAlertResponse, error) {
	variations, err := s.variations.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.LowStockAlertResponse, 0, len(variations))
	for _, v := range variations {
		productName := ""
		if v.Product != nil {
			productName = v.Product.Name
		}
		alerts = append(alerts, dto.LowStockAlertResponse{
			SKU:          v.SKU,
			Product:      productName,
			Stock:        v.Stock,
			MinimumStock: v.MinimumStock,
		})
	}
	return alerts, nil
}
