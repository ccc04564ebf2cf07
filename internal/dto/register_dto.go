package dto

import "github.com/shopspring/decimal"

type OpenRegisterRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance" validate:"min=0"`
}

type CloseRegisterRequest struct {
	// CountedValue is what the operator counted in the drawer.
	CountedValue decimal.Decimal `json:"counted_value" validate:"min=0"`
}

type RegisterReportResponse struct {
	ID              string           `json:"id"`
	Operator        string           `json:"operator"`
	Status          string           `json:"status"`
	OpeningBalance  decimal.Decimal  `json:"opening_balance"`
	CashReceived    decimal.Decimal  `json:"cash_received"`
	ChangeGiven     decimal.Decimal  `json:"change_given"`
	ExpectedBalance decimal.Decimal  `json:"expected_balance"`
	ClosingBalance  *decimal.Decimal `json:"closing_balance"`
	Difference      *decimal.Decimal `json:"difference"`
	SalesCompleted  int64            `json:"sales_completed"`
	OpenedAt        string           `json:"opened_at"`
	ClosedAt        *string          `json:"closed_at"`
}
