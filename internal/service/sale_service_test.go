package service

import (
	"context"
	"testing"

	"github.com/GestharPDV/gesthar-pdv/internal/domerr"
	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/model"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubSaleRepo is an in-memory SaleRepository. Sales are shared pointers so
// header saves are implicit; item/payment methods mutate the owning sale.
type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID, includeInactive bool) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok || (!includeInactive && !s.Active) {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindDraftByUser(_ context.Context, userID uuid.UUID) (*model.Sale, error) {
	for _, s := range r.sales {
		if s.UserID == userID && s.Status == model.SaleDraft && s.Active {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) Save(_ context.Context, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) List(_ context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if filter.Include != "inactive" && !s.Active {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && string(s.Status) != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) CreateItem(_ context.Context, item *model.SaleItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s, ok := r.sales[item.SaleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Items = append(s.Items, *item)
	return nil
}

func (r *stubSaleRepo) UpdateItem(_ context.Context, item *model.SaleItem) error {
	s, ok := r.sales[item.SaleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range s.Items {
		if s.Items[i].ID == item.ID {
			s.Items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	for _, s := range r.sales {
		for i := range s.Items {
			if s.Items[i].ID == itemID {
				s.Items = append(s.Items[:i], s.Items[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) CreatePayment(_ context.Context, p *model.SalePayment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s, ok := r.sales[p.SaleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Payments = append(s.Payments, *p)
	return nil
}

func (r *stubSaleRepo) DeletePayment(_ context.Context, paymentID uuid.UUID) error {
	for _, s := range r.sales {
		for i := range s.Payments {
			if s.Payments[i].ID == paymentID {
				s.Payments = append(s.Payments[:i], s.Payments[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubSaleRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) SaveTx(_ *gorm.DB, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

type saleFixture struct {
	svc        SaleService
	registers  RegisterService
	userID     uuid.UUID
	registerID string
	variation  *model.ProductVariation
	variations *stubVariationRepo
	movements  *stubMovementRepo
	sales      *stubSaleRepo
}

// newSaleFixture wires a SaleService over in-memory repos with one open
// register session and one sellable variation (price 10.00, stock as given).
func newSaleFixture(t *testing.T, stock int64) *saleFixture {
	t.Helper()

	variations := newStubVariationRepo()
	movements := &stubMovementRepo{}
	sales := newStubSaleRepo()
	registers := NewRegisterService(newStubRegisterRepo())
	stockSvc := NewStockService(variations, movements)

	product := &model.Product{
		ID:           uuid.New(),
		Name:         "Long Sleeve Bodysuit",
		SellingPrice: decimal.NewFromInt(10),
		Active:       true,
	}
	variation := variations.add(&model.ProductVariation{
		SKU:       "LONSB-NB-P-A1C",
		Stock:     stock,
		ProductID: product.ID,
		Product:   product,
	})

	userID := uuid.New()
	opened, err := registers.Open(context.Background(), userID, dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	return &saleFixture{
		svc:        NewSaleService(sales, variations, registers, stockSvc, nil),
		registers:  registers,
		userID:     userID,
		registerID: opened.ID,
		variation:  variation,
		variations: variations,
		movements:  movements,
		sales:      sales,
	}
}

func (f *saleFixture) draft(t *testing.T) *dto.SaleResponse {
	t.Helper()
	sale, err := f.svc.CreateDraft(context.Background(), f.userID, dto.CreateSaleRequest{
		CashRegisterID: f.registerID,
	})
	require.NoError(t, err)
	return sale
}

func (f *saleFixture) addItem(t *testing.T, saleID string, qty int64) *dto.SaleResponse {
	t.Helper()
	sale, err := f.svc.AddItem(context.Background(), uuid.MustParse(saleID), f.userID, dto.AddItemRequest{
		SKU: f.variation.SKU, Quantity: qty,
	})
	require.NoError(t, err)
	return sale
}

func (f *saleFixture) pay(t *testing.T, saleID, method string, amount int64) *dto.SaleResponse {
	t.Helper()
	sale, err := f.svc.AddPayment(context.Background(), uuid.MustParse(saleID), f.userID, dto.AddPaymentRequest{
		Method: method, Amount: decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	return sale
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCheckout_CashWithChange(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 3) // 3 × 10.00 = 30.00
	f.pay(t, draft.ID, "CASH", 50)

	completed, err := f.svc.Complete(context.Background(), uuid.MustParse(draft.ID), f.userID)
	require.NoError(t, err)

	assert.Equal(t, string(model.SaleCompleted), completed.Status)
	assert.True(t, completed.NetAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, completed.ChangeAmount.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, completed.CompletedAt)

	// Stock moved and the ledger recorded a SALE referencing this sale.
	assert.Equal(t, int64(7), f.variation.Stock)
	require.Len(t, f.movements.movements, 1)
	m := f.movements.movements[0]
	assert.Equal(t, model.MovementSale, m.Type)
	assert.Equal(t, int64(3), m.Quantity)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, draft.ID, m.ReferenceID.String())
}

func TestCheckout_InsufficientPayment(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 3) // net 30.00
	f.pay(t, draft.ID, "CASH", 20)

	_, err := f.svc.Complete(context.Background(), uuid.MustParse(draft.ID), f.userID)
	var insufficient *domerr.InsufficientPaymentError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "10.00", insufficient.Remaining)

	// Sale stays a draft, stock untouched.
	sale, err := f.svc.Get(context.Background(), uuid.MustParse(draft.ID), false)
	require.NoError(t, err)
	assert.Equal(t, string(model.SaleDraft), sale.Status)
	assert.Equal(t, int64(10), f.variation.Stock)
	assert.Empty(t, f.movements.movements)
}

func TestCheckout_NonCashCannotOverpay(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 3) // net 30.00

	_, err := f.svc.AddPayment(context.Background(), uuid.MustParse(draft.ID), f.userID, dto.AddPaymentRequest{
		Method: "CREDIT", Amount: decimal.NewFromInt(40),
	})
	assert.ErrorIs(t, err, domerr.ErrOverPayment)
}

func TestAddPayment_RejectsNonPositiveAmount(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 1)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := f.svc.AddPayment(context.Background(), uuid.MustParse(draft.ID), f.userID, dto.AddPaymentRequest{
			Method: "CASH", Amount: amount,
		})
		assert.ErrorIs(t, err, domerr.ErrInvalidAmount, "amount %s", amount)
	}
}

func TestAddItem_AccumulatesQuantityOnSameSKU(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 2)
	sale := f.addItem(t, draft.ID, 3)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, int64(5), sale.Items[0].Quantity)
	assert.True(t, sale.GrossAmount.Equal(decimal.NewFromInt(50)))
}

func TestDiscount_Flows(t *testing.T) {
	f := newSaleFixture(t, 20)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 10) // gross 100.00
	saleID := uuid.MustParse(draft.ID)

	sale, err := f.svc.ApplyDiscount(context.Background(), saleID, f.userID, dto.ApplyDiscountRequest{
		Amount: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.True(t, sale.NetAmount.Equal(decimal.NewFromInt(75)))

	_, err = f.svc.ApplyDiscount(context.Background(), saleID, f.userID, dto.ApplyDiscountRequest{
		Amount: decimal.NewFromInt(150),
	})
	assert.ErrorIs(t, err, domerr.ErrDiscountExceedsTotal)

	_, err = f.svc.ApplyDiscount(context.Background(), saleID, f.userID, dto.ApplyDiscountRequest{
		Amount: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domerr.ErrNegativeDiscount)
}

func TestComplete_EmptySale(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	_, err := f.svc.Complete(context.Background(), uuid.MustParse(draft.ID), f.userID)
	assert.ErrorIs(t, err, domerr.ErrEmptySale)
}

func TestComplete_RegisterMustStillBeOpen(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 1)
	f.pay(t, draft.ID, "CASH", 10)

	_, err := f.registers.Close(context.Background(), uuid.MustParse(f.registerID), f.userID, dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), uuid.MustParse(draft.ID), f.userID)
	assert.ErrorIs(t, err, domerr.ErrRegisterClosed)
}

func TestComplete_PaymentValidatedBeforeRegisterState(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 3) // net 30.00
	f.pay(t, draft.ID, "CASH", 20)

	_, err := f.registers.Close(context.Background(), uuid.MustParse(f.registerID), f.userID, dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Underpaid and register closed: the payment shortfall is reported first
	// so the cashier can settle the balance before reopening anything.
	_, err = f.svc.Complete(context.Background(), uuid.MustParse(draft.ID), f.userID)
	var insufficient *domerr.InsufficientPaymentError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "10.00", insufficient.Remaining)
}

func TestComplete_LastUnitGoesToFirstSale(t *testing.T) {
	f := newSaleFixture(t, 1)

	first := f.draft(t)
	f.addItem(t, first.ID, 1)
	f.pay(t, first.ID, "CASH", 10)

	second := f.draft(t)
	f.addItem(t, second.ID, 1)
	f.pay(t, second.ID, "CASH", 10)

	_, err := f.svc.Complete(context.Background(), uuid.MustParse(first.ID), f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.variation.Stock)

	_, err = f.svc.Complete(context.Background(), uuid.MustParse(second.ID), f.userID)
	var insufficient *domerr.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(0), insufficient.Available)
}

func TestComplete_RejectsNonDraft(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 1)
	f.pay(t, draft.ID, "CASH", 10)
	saleID := uuid.MustParse(draft.ID)

	_, err := f.svc.Complete(context.Background(), saleID, f.userID)
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), saleID, f.userID)
	assert.ErrorIs(t, err, domerr.ErrSaleNotDraft)
}

func TestCancel_RestoresStockAndSoftDeletes(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	f.addItem(t, draft.ID, 3)
	f.pay(t, draft.ID, "CASH", 30)
	saleID := uuid.MustParse(draft.ID)

	_, err := f.svc.Complete(context.Background(), saleID, f.userID)
	require.NoError(t, err)
	require.Equal(t, int64(7), f.variation.Stock)

	canceled, err := f.svc.Cancel(context.Background(), saleID, f.userID, "wrong size")
	require.NoError(t, err)
	assert.Equal(t, string(model.SaleCanceled), canceled.Status)

	// Stock is back and the ledger holds both directions.
	assert.Equal(t, int64(10), f.variation.Stock)
	require.Len(t, f.movements.movements, 2)
	ret := f.movements.movements[1]
	assert.Equal(t, model.MovementReturn, ret.Type)
	assert.Equal(t, int64(3), ret.Quantity)
	require.NotNil(t, ret.UnitPrice)
	assert.True(t, ret.UnitPrice.Equal(decimal.NewFromInt(10)), "return priced at the line snapshot")

	// Default reads no longer see the canceled sale; the audit flag does.
	_, err = f.svc.Get(context.Background(), saleID, false)
	assert.ErrorIs(t, err, domerr.ErrSaleNotFound)
	audit, err := f.svc.Get(context.Background(), saleID, true)
	require.NoError(t, err)
	assert.Equal(t, string(model.SaleCanceled), audit.Status)
}

func TestCancel_OnlyCompletedSales(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	_, err := f.svc.Cancel(context.Background(), uuid.MustParse(draft.ID), f.userID, "")
	assert.ErrorIs(t, err, domerr.ErrSaleNotCompleted)
}

func TestDraftMutation_HiddenFromOtherUsers(t *testing.T) {
	f := newSaleFixture(t, 10)

	draft := f.draft(t)
	_, err := f.svc.AddItem(context.Background(), uuid.MustParse(draft.ID), uuid.New(), dto.AddItemRequest{
		SKU: f.variation.SKU, Quantity: 1,
	})
	assert.ErrorIs(t, err, domerr.ErrSaleNotFound)
}

func TestAddItem_InactiveProductRejected(t *testing.T) {
	f := newSaleFixture(t, 10)
	f.variation.Product.Active = false

	draft := f.draft(t)
	_, err := f.svc.AddItem(context.Background(), uuid.MustParse(draft.ID), f.userID, dto.AddItemRequest{
		SKU: f.variation.SKU, Quantity: 1,
	})
	assert.ErrorIs(t, err, domerr.ErrVariationNotFound)
}
