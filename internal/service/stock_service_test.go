package service

import (
	"context"
	"testing"

	"github.com/GestharPDV/gesthar-pdv/internal/domerr"
	"github.com/GestharPDV/gesthar-pdv/internal/model"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubVariationRepo is an in-memory VariationRepository for testing.
type stubVariationRepo struct {
	variations map[uuid.UUID]*model.ProductVariation
	bySKU      map[string]*model.ProductVariation
}

func newStubVariationRepo() *stubVariationRepo {
	return &stubVariationRepo{
		variations: make(map[uuid.UUID]*model.ProductVariation),
		bySKU:      make(map[string]*model.ProductVariation),
	}
}

func (r *stubVariationRepo) add(v *model.ProductVariation) *model.ProductVariation {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.variations[v.ID] = v
	r.bySKU[v.SKU] = v
	return v
}

func (r *stubVariationRepo) Create(_ context.Context, v *model.ProductVariation) error {
	r.add(v)
	return nil
}

func (r *stubVariationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	v, ok := r.variations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVariationRepo) FindBySKU(_ context.Context, sku string) (*model.ProductVariation, error) {
	v, ok := r.bySKU[sku]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVariationRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.ProductVariation, error) {
	var out []model.ProductVariation
	for _, v := range r.variations {
		if v.ProductID == productID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVariationRepo) ListBelowMinimum(_ context.Context) ([]model.ProductVariation, error) {
	var out []model.ProductVariation
	for _, v := range r.variations {
		if v.BelowMinimum() {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubVariationRepo) Update(_ context.Context, v *model.ProductVariation) error {
	r.variations[v.ID] = v
	r.bySKU[v.SKU] = v
	return nil
}

func (r *stubVariationRepo) FindByIDForUpdate(_ *gorm.DB, id uuid.UUID) (*model.ProductVariation, error) {
	v, ok := r.variations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (r *stubVariationRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, stock int64) error {
	v, ok := r.variations[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.Stock = stock
	return nil
}

func (r *stubVariationRepo) DB() *gorm.DB { return nil }

var _ repository.VariationRepository = (*stubVariationRepo)(nil)

// stubMovementRepo captures ledger entries for assertion.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.VariationID != nil && m.VariationID != *filter.VariationID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func newStockFixture(t *testing.T, stock int64) (StockService, *stubVariationRepo, *stubMovementRepo, *model.ProductVariation) {
	t.Helper()
	variations := newStubVariationRepo()
	movements := &stubMovementRepo{}
	v := variations.add(&model.ProductVariation{SKU: "BODML-AM-P-X7K", Stock: stock, MinimumStock: 2})
	return NewStockService(variations, movements), variations, movements, v
}

func TestAddStock_IncrementsAndAppendsMovement(t *testing.T) {
	svc, _, movements, v := newStockFixture(t, 5)
	price := decimal.NewFromFloat(12.50)

	snap, err := svc.AddStock(context.Background(), AddStockParams{
		VariationID: v.ID,
		Quantity:    10,
		UserID:      uuid.New(),
		UnitPrice:   &price,
		Type:        model.MovementIn,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), snap.Stock)
	assert.Equal(t, int64(15), v.Stock)

	require.Len(t, movements.movements, 1)
	m := movements.movements[0]
	assert.Equal(t, model.MovementIn, m.Type)
	assert.Equal(t, int64(10), m.Quantity)
	require.NotNil(t, m.UnitPrice)
	assert.True(t, m.UnitPrice.Equal(price))
}

func TestAddStock_RequiresPositiveUnitPrice(t *testing.T) {
	svc, _, movements, v := newStockFixture(t, 5)

	_, err := svc.AddStock(context.Background(), AddStockParams{
		VariationID: v.ID,
		Quantity:    3,
		UserID:      uuid.New(),
		Type:        model.MovementIn,
	})
	assert.ErrorIs(t, err, domerr.ErrUnitPriceRequired)

	zero := decimal.Zero
	_, err = svc.AddStock(context.Background(), AddStockParams{
		VariationID: v.ID,
		Quantity:    3,
		UserID:      uuid.New(),
		UnitPrice:   &zero,
		Type:        model.MovementIn,
	})
	assert.ErrorIs(t, err, domerr.ErrUnitPriceRequired)

	assert.Equal(t, int64(5), v.Stock)
	assert.Empty(t, movements.movements)
}

func TestAddStock_RejectsOutboundType(t *testing.T) {
	svc, _, _, v := newStockFixture(t, 5)
	price := decimal.NewFromInt(10)

	_, err := svc.AddStock(context.Background(), AddStockParams{
		VariationID: v.ID,
		Quantity:    1,
		UserID:      uuid.New(),
		UnitPrice:   &price,
		Type:        model.MovementSale,
	})
	assert.ErrorIs(t, err, domerr.ErrInvalidMovementType)
}

func TestRemoveStock_Decrements(t *testing.T) {
	svc, _, movements, v := newStockFixture(t, 10)

	snap, err := svc.RemoveStock(context.Background(), RemoveStockParams{
		VariationID: v.ID,
		Quantity:    3,
		UserID:      uuid.New(),
		Type:        model.MovementOut,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), snap.Stock)
	assert.Equal(t, int64(7), v.Stock)
	require.Len(t, movements.movements, 1)
	assert.Equal(t, model.MovementOut, movements.movements[0].Type)
}

func TestRemoveStock_InsufficientStockLeavesStateUntouched(t *testing.T) {
	svc, _, movements, v := newStockFixture(t, 2)

	_, err := svc.RemoveStock(context.Background(), RemoveStockParams{
		VariationID: v.ID,
		Quantity:    5,
		UserID:      uuid.New(),
		Type:        model.MovementOut,
	})
	var insufficient *domerr.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, v.SKU, insufficient.SKU)
	assert.Equal(t, int64(2), insufficient.Available)
	assert.Equal(t, int64(5), insufficient.Requested)

	// No partial write: counter and ledger both untouched.
	assert.Equal(t, int64(2), v.Stock)
	assert.Empty(t, movements.movements)
}

func TestRemoveStock_RejectsInboundTypeAndBadQuantity(t *testing.T) {
	svc, _, _, v := newStockFixture(t, 5)

	_, err := svc.RemoveStock(context.Background(), RemoveStockParams{
		VariationID: v.ID, Quantity: 1, UserID: uuid.New(), Type: model.MovementIn,
	})
	assert.ErrorIs(t, err, domerr.ErrInvalidMovementType)

	_, err = svc.RemoveStock(context.Background(), RemoveStockParams{
		VariationID: v.ID, Quantity: 0, UserID: uuid.New(), Type: model.MovementOut,
	})
	assert.ErrorIs(t, err, domerr.ErrInvalidQuantity)
}

func TestRemoveStock_UnknownVariation(t *testing.T) {
	svc, _, _, _ := newStockFixture(t, 5)

	_, err := svc.RemoveStock(context.Background(), RemoveStockParams{
		VariationID: uuid.New(), Quantity: 1, UserID: uuid.New(), Type: model.MovementOut,
	})
	assert.ErrorIs(t, err, domerr.ErrVariationNotFound)
}

func TestLowStock_ReportsAtOrBelowMinimum(t *testing.T) {
	variations := newStubVariationRepo()
	movements := &stubMovementRepo{}
	variations.add(&model.ProductVariation{SKU: "LOW-1", Stock: 1, MinimumStock: 3})
	variations.add(&model.ProductVariation{SKU: "EDGE", Stock: 3, MinimumStock: 3})
	variations.add(&model.ProductVariation{SKU: "OK-1", Stock: 10, MinimumStock: 3})
	svc := NewStockService(variations, movements)

	alerts, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	skus := []string{alerts[0].SKU, alerts[1].SKU}
	assert.ElementsMatch(t, []string{"LOW-1", "EDGE"}, skus)
}
