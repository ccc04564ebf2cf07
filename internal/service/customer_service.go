package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/GestharPDV/gesthar-pdv/internal/domerr"
	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/model"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"
	"github.com/GestharPDV/gesthar-pdv/internal/sku"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerService manages store customer records. Customers are identified by
// tax id (CPF) and soft-deleted so past sales keep their reference.
type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	GetByTaxID(ctx context.Context, taxID string) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

var errInvalidTaxID = &domerr.Error{Kind: domerr.KindValidation, Msg: "invalid tax id"}

type customerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	taxID := normalizeTaxID(req.TaxID)
	if !validTaxID(taxID) {
		return nil, errInvalidTaxID
	}

	customer := &model.Customer{
		Name:   sku.StandardizeName(req.Name),
		TaxID:  taxID,
		Email:  req.Email,
		Phone:  req.Phone,
		Note:   req.Note,
		Active: true,
	}
	if req.BirthDate != nil {
		t, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, &domerr.Error{Kind: domerr.KindValidation, Msg: "invalid birth date"}
		}
		customer.BirthDate = &t
	}
	if req.BabyDueDate != nil {
		t, err := time.Parse("2006-01-02", *req.BabyDueDate)
		if err != nil {
			return nil, &domerr.Error{Kind: domerr.KindValidation, Msg: "invalid baby due date"}
		}
		customer.BabyDueDate = &t
	}
	for _, a := range req.Addresses {
		customer.Addresses = append(customer.Addresses, model.Address{
			ZipCode:      a.ZipCode,
			State:        strings.ToUpper(a.State),
			City:         sku.StandardizeName(a.City),
			Neighborhood: sku.StandardizeName(a.Neighborhood),
			Street:       sku.StandardizeName(a.Street),
			Number:       a.Number,
			Complement:   a.Complement,
		})
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrNotFound
		}
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) GetByTaxID(ctx context.Context, taxID string) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByTaxID(ctx, normalizeTaxID(taxID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrNotFound
		}
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 20
	}
	customers, total, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, *customerToResponse(&customers[i]))
	}
	return &dto.CustomerListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		customer.Name = sku.StandardizeName(*req.Name)
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Note != nil {
		customer.Note = req.Note
	}
	if req.BirthDate != nil {
		t, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, &domerr.Error{Kind: domerr.KindValidation, Msg: "invalid birth date"}
		}
		customer.BirthDate = &t
	}
	if req.BabyDueDate != nil {
		t, err := time.Parse("2006-01-02", *req.BabyDueDate)
		if err != nil {
			return nil, &domerr.Error{Kind: domerr.KindValidation, Msg: "invalid baby due date"}
		}
		customer.BabyDueDate = &t
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customerToResponse(customer), nil
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domerr.ErrNotFound
		}
		return err
	}
	return s.customers.SoftDelete(ctx, id)
}

func (s *customerService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domerr.ErrNotFound
		}
		return err
	}
	return s.customers.Reactivate(ctx, id)
}

// normalizeTaxID strips formatting so "123.456.789-09" and "12345678909"
// resolve to the same customer.
func normalizeTaxID(taxID string) string {
	var b strings.Builder
	for _, r := range taxID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validTaxID checks the CPF verification digits (module 11).
func validTaxID(taxID string) bool {
	if len(taxID) != 11 {
		return false
	}
	// All-equal sequences like 00000000000 pass the digit check but are invalid.
	allEqual := true
	for i := 1; i < 11; i++ {
		if taxID[i] != taxID[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	digits := make([]int, 11)
	for i, r := range taxID {
		digits[i] = int(r - '0')
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += digits[i] * (10 - i)
	}
	first := (sum * 10) % 11 % 10
	if first != digits[9] {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += digits[i] * (11 - i)
	}
	second := (sum * 10) % 11 % 10
	return second == digits[10]
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	addresses := make([]dto.AddressResponse, 0, len(c.Addresses))
	for _, a := range c.Addresses {
		addresses = append(addresses, dto.AddressResponse{
			ID:           a.ID.String(),
			ZipCode:      a.ZipCode,
			State:        a.State,
			City:         a.City,
			Neighborhood: a.Neighborhood,
			Street:       a.Street,
			Number:       a.Number,
			Complement:   a.Complement,
		})
	}

	resp := &dto.CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Note:      c.Note,
		Active:    c.Active,
		Addresses: addresses,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.BirthDate != nil {
		d := c.BirthDate.Format("2006-01-02")
		resp.BirthDate = &d
	}
	if c.BabyDueDate != nil {
		d := c.BabyDueDate.Format("2006-01-02")
		resp.BabyDueDate = &d
	}
	return resp
}
