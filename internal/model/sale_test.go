package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecalculateTotals_SumsItemsAndAppliesDiscount(t *testing.T) {
	sale := &Sale{Status: SaleDraft, DiscountAmount: decimal.NewFromInt(5)}
	sale.Items = []SaleItem{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(20)},
		{Quantity: 1, UnitPrice: decimal.NewFromInt(15), TotalPrice: decimal.NewFromInt(15)},
	}

	sale.RecalculateTotals()

	assert.True(t, sale.GrossAmount.Equal(decimal.NewFromInt(35)))
	assert.True(t, sale.NetAmount.Equal(decimal.NewFromInt(30)))
}

func TestRecalculateTotals_FrozenOutsideDraft(t *testing.T) {
	sale := &Sale{
		Status:      SaleCompleted,
		GrossAmount: decimal.NewFromInt(100),
		NetAmount:   decimal.NewFromInt(100),
	}
	sale.Items = []SaleItem{{TotalPrice: decimal.NewFromInt(999)}}

	sale.RecalculateTotals()

	assert.True(t, sale.GrossAmount.Equal(decimal.NewFromInt(100)), "completed totals never change")
	assert.True(t, sale.NetAmount.Equal(decimal.NewFromInt(100)))
}

func TestComputeTotal_ClampsNegative(t *testing.T) {
	item := &SaleItem{
		Quantity:  1,
		UnitPrice: decimal.NewFromInt(10),
		Discount:  decimal.NewFromInt(15),
	}
	item.ComputeTotal()
	assert.True(t, item.TotalPrice.IsZero())
}

func TestPaymentDerivedAmounts(t *testing.T) {
	sale := &Sale{Status: SaleDraft, NetAmount: decimal.NewFromInt(30)}
	sale.Payments = []SalePayment{
		{Method: PaymentCash, Amount: decimal.NewFromInt(20)},
		{Method: PaymentPix, Amount: decimal.NewFromInt(5)},
	}

	assert.True(t, sale.TotalPaid().Equal(decimal.NewFromInt(25)))
	assert.True(t, sale.RemainingBalance().Equal(decimal.NewFromInt(5)))
	assert.False(t, sale.IsFullyPaid())
	assert.True(t, sale.ChangePreview().IsZero())
	assert.True(t, sale.CashReceived().Equal(decimal.NewFromInt(20)))

	sale.Payments = append(sale.Payments, SalePayment{Method: PaymentCash, Amount: decimal.NewFromInt(25)})
	assert.True(t, sale.IsFullyPaid())
	assert.True(t, sale.RemainingBalance().IsZero(), "remaining never goes negative")
	assert.True(t, sale.ChangePreview().Equal(decimal.NewFromInt(20)))
}

func TestMovementTypeDirections(t *testing.T) {
	inbound := []MovementType{MovementIn, MovementAdjustIn, MovementReturn}
	outbound := []MovementType{MovementOut, MovementAdjustOut, MovementSale}

	for _, mt := range inbound {
		assert.True(t, mt.Inbound(), "%s", mt)
		assert.False(t, mt.Outbound(), "%s", mt)
	}
	for _, mt := range outbound {
		assert.True(t, mt.Outbound(), "%s", mt)
		assert.False(t, mt.Inbound(), "%s", mt)
	}
}
