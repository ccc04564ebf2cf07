package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GestharPDV/gesthar-pdv/internal/domerr"
	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/model"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"
	"github.com/GestharPDV/gesthar-pdv/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SaleService drives the checkout flow. A sale starts as a DRAFT bound to an
// open cash register session, accumulates items and payments, and is then
// completed or abandoned. Completion and cancellation are single ACID
// transactions that move stock and freeze the sale totals together.
type SaleService interface {
	CreateDraft(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	AddItem(ctx context.Context, saleID, userID uuid.UUID, req dto.AddItemRequest) (*dto.SaleResponse, error)
	RemoveItem(ctx context.Context, saleID, userID, itemID uuid.UUID) (*dto.SaleResponse, error)
	AddPayment(ctx context.Context, saleID, userID uuid.UUID, req dto.AddPaymentRequest) (*dto.SaleResponse, error)
	RemovePayment(ctx context.Context, saleID, userID, paymentID uuid.UUID) (*dto.SaleResponse, error)
	ApplyDiscount(ctx context.Context, saleID, userID uuid.UUID, req dto.ApplyDiscountRequest) (*dto.SaleResponse, error)

	Complete(ctx context.Context, saleID, userID uuid.UUID) (*dto.SaleResponse, error)
	Cancel(ctx context.Context, saleID, userID uuid.UUID, reason string) (*dto.SaleResponse, error)

	Get(ctx context.Context, saleID uuid.UUID, includeInactive bool) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	sales      repository.SaleRepository
	variations repository.VariationRepository
	registers  RegisterService
	stock      StockService
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	sales repository.SaleRepository,
	variations repository.VariationRepository,
	registers RegisterService,
	stock StockService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		sales:      sales,
		variations: variations,
		registers:  registers,
		stock:      stock,
		dispatcher: dispatcher,
	}
}

// ── Draft lifecycle ───────────────────────────────────────────────────────────

func (s *saleService) CreateDraft(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	registerID, err := uuid.Parse(req.CashRegisterID)
	if err != nil {
		return nil, domerr.ErrRegisterNotFound
	}
	if _, err := s.registers.RequireOpen(ctx, registerID, userID); err != nil {
		return nil, err
	}

	sale := &model.Sale{
		UserID:         userID,
		CashRegisterID: &registerID,
		Status:         model.SaleDraft,
		Active:         true,
	}
	if req.CustomerID != nil && *req.CustomerID != "" {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, domerr.ErrNotFound
		}
		sale.CustomerID = &customerID
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) AddItem(ctx context.Context, saleID, userID uuid.UUID, req dto.AddItemRequest) (*dto.SaleResponse, error) {
	sale, err := s.loadDraft(ctx, saleID, userID)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, domerr.ErrInvalidQuantity
	}

	variation, err := s.variations.FindBySKU(ctx, req.SKU)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrVariationNotFound
		}
		return nil, err
	}
	if variation.Product == nil || !variation.Product.Active {
		return nil, domerr.ErrVariationNotFound
	}

	// A variation appears at most once per sale: adding it again accumulates
	// the quantity on the existing line. The unit price stays the snapshot
	// taken when the line was first created.
	var existing *model.SaleItem
	for i := range sale.Items {
		if sale.Items[i].VariationID == variation.ID {
			existing = &sale.Items[i]
			break
		}
	}

	if existing != nil {
		existing.Quantity += req.Quantity
		existing.ComputeTotal()
		if err := s.sales.UpdateItem(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		item := &model.SaleItem{
			SaleID:      sale.ID,
			VariationID: variation.ID,
			Quantity:    req.Quantity,
			UnitPrice:   variation.Product.SellingPrice,
		}
		item.ComputeTotal()
		if err := s.sales.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.recalcAndSave(ctx, sale.ID)
}

func (s *saleService) RemoveItem(ctx context.Context, saleID, userID, itemID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.loadDraft(ctx, saleID, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range sale.Items {
		if sale.Items[i].ID == itemID {
			found = true
			break
		}
	}
	if !found {
		return nil, domerr.ErrNotFound
	}
	if err := s.sales.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.recalcAndSave(ctx, sale.ID)
}

func (s *saleService) AddPayment(ctx context.Context, saleID, userID uuid.UUID, req dto.AddPaymentRequest) (*dto.SaleResponse, error) {
	sale, err := s.loadDraft(ctx, saleID, userID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, domerr.ErrInvalidAmount
	}

	method := model.PaymentMethod(req.Method)
	// Cash may exceed the balance (the surplus becomes change). Any other
	// method has no change path, so it is capped at the remaining balance.
	if method != model.PaymentCash && req.Amount.GreaterThan(sale.RemainingBalance()) {
		return nil, domerr.ErrOverPayment
	}

	payment := &model.SalePayment{
		SaleID: sale.ID,
		Method: method,
		Amount: req.Amount,
	}
	if err := s.sales.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return s.recalcAndSave(ctx, sale.ID)
}

func (s *saleService) RemovePayment(ctx context.Context, saleID, userID, paymentID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.loadDraft(ctx, saleID, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range sale.Payments {
		if sale.Payments[i].ID == paymentID {
			found = true
			break
		}
	}
	if !found {
		return nil, domerr.ErrNotFound
	}
	if err := s.sales.DeletePayment(ctx, paymentID); err != nil {
		return nil, err
	}
	return s.recalcAndSave(ctx, sale.ID)
}

func (s *saleService) ApplyDiscount(ctx context.Context, saleID, userID uuid.UUID, req dto.ApplyDiscountRequest) (*dto.SaleResponse, error) {
	sale, err := s.loadDraft(ctx, saleID, userID)
	if err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, domerr.ErrNegativeDiscount
	}
	if req.Amount.GreaterThan(sale.GrossAmount) {
		return nil, domerr.ErrDiscountExceedsTotal
	}

	sale.DiscountAmount = req.Amount
	sale.RecalculateTotals()
	if err := s.sales.Save(ctx, sale); err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

// ── Complete ──────────────────────────────────────────────────────────────────
// One ACID transaction:
//   1. Lock the sale row, re-check it is still DRAFT
//   2. Recompute totals and require full payment
//   3. Validate: has items, session still open
//   4. Decrement stock per item (SALE movements, row-locked, referencing the sale)
//   5. Freeze totals, compute change, mark COMPLETED
//   6. COMMIT
//   7. (async) dispatch the receipt job

func (s *saleService) Complete(ctx context.Context, saleID, userID uuid.UUID) (*dto.SaleResponse, error) {
	var completed *model.Sale

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		sale, err := s.sales.FindByIDForUpdateTx(tx, saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domerr.ErrSaleNotFound
			}
			return err
		}
		if sale.UserID != userID {
			return domerr.ErrSaleNotFound
		}
		if sale.Status != model.SaleDraft {
			return domerr.ErrSaleNotDraft
		}
		sale.RecalculateTotals()
		if !sale.IsFullyPaid() {
			return &domerr.InsufficientPaymentError{
				Remaining: sale.RemainingBalance().StringFixed(2),
			}
		}
		if len(sale.Items) == 0 {
			return domerr.ErrEmptySale
		}
		if sale.CashRegisterID == nil {
			return domerr.ErrNoRegisterSession
		}
		if _, err := s.registers.RequireOpen(ctx, *sale.CashRegisterID, userID); err != nil {
			return err
		}

		saleRef := sale.ID
		for _, item := range sale.Items {
			notes := fmt.Sprintf("sale %s", sale.ID)
			if _, err := s.stock.RemoveStockTx(tx, RemoveStockParams{
				VariationID: item.VariationID,
				Quantity:    item.Quantity,
				UserID:      userID,
				Type:        model.MovementSale,
				Notes:       &notes,
				ReferenceID: &saleRef,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		sale.ChangeAmount = sale.ChangePreview()
		sale.Status = model.SaleCompleted
		sale.CompletedAt = &now
		if err := s.sales.SaveTx(tx, sale); err != nil {
			return err
		}

		completed = sale
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("sale_id", completed.ID.String()).
		Str("net_amount", completed.NetAmount.String()).
		Str("change", completed.ChangeAmount.String()).
		Int("items", len(completed.Items)).
		Msg("sale completed")

	// Receipt generation is best-effort and must never fail the sale.
	if s.dispatcher != nil {
		payload := map[string]interface{}{"sale_id": completed.ID.String()}
		if err := s.dispatcher.EnqueueReceipt(ctx, payload); err != nil {
			log.Warn().Err(err).Str("sale_id", completed.ID.String()).Msg("receipt job enqueue failed")
		}
	}

	return saleToResponse(completed), nil
}

// ── Cancel ────────────────────────────────────────────────────────────────────
// Reverses a completed sale: every item flows back as a RETURN movement priced
// at the original line snapshot, and the sale is soft-deleted (active=false).
// The ledger keeps both directions; nothing is physically removed.

func (s *saleService) Cancel(ctx context.Context, saleID, userID uuid.UUID, reason string) (*dto.SaleResponse, error) {
	var canceled *model.Sale

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		sale, err := s.sales.FindByIDForUpdateTx(tx, saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domerr.ErrSaleNotFound
			}
			return err
		}
		if sale.Status != model.SaleCompleted {
			return domerr.ErrSaleNotCompleted
		}

		saleRef := sale.ID
		for _, item := range sale.Items {
			notes := fmt.Sprintf("cancellation of sale %s", sale.ID)
			if reason != "" {
				notes = fmt.Sprintf("cancellation of sale %s: %s", sale.ID, reason)
			}
			unitPrice := item.UnitPrice
			if _, err := s.stock.AddStockTx(tx, AddStockParams{
				VariationID: item.VariationID,
				Quantity:    item.Quantity,
				UserID:      userID,
				Type:        model.MovementReturn,
				UnitPrice:   &unitPrice,
				Notes:       &notes,
				ReferenceID: &saleRef,
			}); err != nil {
				return err
			}
		}

		sale.Status = model.SaleCanceled
		sale.Active = false
		if err := s.sales.SaveTx(tx, sale); err != nil {
			return err
		}

		canceled = sale
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("sale_id", canceled.ID.String()).
		Str("reason", reason).
		Msg("sale canceled")

	return saleToResponse(canceled), nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *saleService) Get(ctx context.Context, saleID uuid.UUID, includeInactive bool) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, saleID, includeInactive)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrSaleNotFound
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// loadDraft fetches the sale and checks it belongs to the user and is still
// mutable. Every draft mutator goes through here.
func (s *saleService) loadDraft(ctx context.Context, saleID, userID uuid.UUID) (*model.Sale, error) {
	sale, err := s.sales.FindByID(ctx, saleID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrSaleNotFound
		}
		return nil, err
	}
	if sale.UserID != userID {
		return nil, domerr.ErrSaleNotFound
	}
	if sale.Status != model.SaleDraft {
		return nil, domerr.ErrSaleNotDraft
	}
	return sale, nil
}

// recalcAndSave re-reads the sale with fresh items/payments, recomputes the
// header totals and persists them.
func (s *saleService) recalcAndSave(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, saleID, false)
	if err != nil {
		return nil, err
	}
	sale.RecalculateTotals()
	if err := s.sales.Save(ctx, sale); err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		skuCode := ""
		productName := ""
		if item.Variation != nil {
			skuCode = item.Variation.SKU
			if item.Variation.Product != nil {
				productName = item.Variation.Product.Name
			}
		}
		items = append(items, dto.SaleItemResponse{
			ID:         item.ID.String(),
			SKU:        skuCode,
			Product:    productName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Discount:   item.Discount,
			TotalPrice: item.TotalPrice,
		})
	}

	payments := make([]dto.SalePaymentResponse, 0, len(sale.Payments))
	for _, p := range sale.Payments {
		payments = append(payments, dto.SalePaymentResponse{
			ID:     p.ID.String(),
			Method: string(p.Method),
			Amount: p.Amount,
		})
	}

	resp := &dto.SaleResponse{
		ID:               sale.ID.String(),
		Status:           string(sale.Status),
		Items:            items,
		Payments:         payments,
		GrossAmount:      sale.GrossAmount,
		DiscountAmount:   sale.DiscountAmount,
		NetAmount:        sale.NetAmount,
		TotalPaid:        sale.TotalPaid(),
		RemainingBalance: sale.RemainingBalance(),
		ChangeAmount:     sale.ChangeAmount,
		CreatedAt:        sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.CustomerID != nil {
		id := sale.CustomerID.String()
		resp.CustomerID = &id
	}
	if sale.CashRegisterID != nil {
		id := sale.CashRegisterID.String()
		resp.CashRegisterID = &id
	}
	if sale.CompletedAt != nil {
		completed := sale.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}
