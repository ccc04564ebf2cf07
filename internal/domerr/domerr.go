// Package domerr defines the domain error taxonomy shared by services and
// handlers. Every error falls in one of five kinds; handlers map kinds to
// HTTP status codes without inspecting individual errors.
package domerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping and retry decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindStateConflict
	KindInsufficientResource
	KindNotFound
	KindConcurrency // transient — safe to retry the whole transaction once
)

// Error is a domain error with a stable kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newErr(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

var (
	ErrNotFound             = newErr(KindNotFound, "record not found")
	ErrVariationNotFound    = newErr(KindNotFound, "product variation not found")
	ErrSaleNotFound         = newErr(KindNotFound, "sale not found")
	ErrRegisterNotFound     = newErr(KindNotFound, "cash register session not found")
	ErrInvalidMovementType  = newErr(KindValidation, "invalid movement type for this operation")
	ErrInvalidQuantity      = newErr(KindValidation, "quantity must be greater than zero")
	ErrInvalidAmount        = newErr(KindValidation, "invalid monetary amount")
	ErrUnitPriceRequired    = newErr(KindValidation, "unit price is required for inbound movements")
	ErrNegativeDiscount     = newErr(KindValidation, "discount cannot be negative")
	ErrDiscountExceedsTotal = newErr(KindValidation, "discount cannot exceed the sale gross amount")
	ErrSaleNotDraft         = newErr(KindStateConflict, "sale is no longer a draft")
	ErrSaleNotCompleted     = newErr(KindStateConflict, "only completed sales can be canceled")
	ErrEmptySale            = newErr(KindStateConflict, "sale has no items")
	ErrNoRegisterSession    = newErr(KindStateConflict, "sale has no cash register session")
	ErrRegisterClosed       = newErr(KindStateConflict, "cash register session is closed")
	ErrAlreadyClosed        = newErr(KindStateConflict, "cash register session is already closed")
	ErrDuplicateOpenSession = newErr(KindStateConflict, "operator already has an open cash register session")
	ErrOverPayment          = newErr(KindValidation, "non-cash payment exceeds the remaining balance")
	ErrConcurrency          = newErr(KindConcurrency, "transaction conflict, retry the operation")
)

// InsufficientStockError carries the shortfall so the caller can correct.
type InsufficientStockError struct {
	SKU       string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.SKU, e.Available, e.Requested)
}

// InsufficientPaymentError carries the remaining balance.
type InsufficientPaymentError struct {
	Remaining string // decimal, two places
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: %s still owed", e.Remaining)
}

// KindOf extracts the Kind from any error in the chain.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	var stock *InsufficientStockError
	if errors.As(err, &stock) {
		return KindInsufficientResource
	}
	var payment *InsufficientPaymentError
	if errors.As(err, &payment) {
		return KindInsufficientResource
	}
	return KindUnknown
}
