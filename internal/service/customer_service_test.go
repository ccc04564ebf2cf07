package service

import (
	"context"
	"testing"

	"github.com/GestharPDV/gesthar-pdv/internal/domerr"
	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/model"
	"github.com/GestharPDV/gesthar-pdv/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) FindByTaxID(_ context.Context, taxID string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.TaxID == taxID && c.Active {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) List(_ context.Context, _ dto.CustomerFilter) ([]model.Customer, int64, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Active = false
	return nil
}

func (r *stubCustomerRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Active = true
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestTaxIDValidation(t *testing.T) {
	cases := []struct {
		taxID string
		valid bool
	}{
		{"52998224725", true},
		{"111.444.777-35", true}, // formatted input is normalized first
		{"52998224724", false},   // wrong check digit
		{"11111111111", false},   // all-equal sequence
		{"00000000000", false},
		{"1234567890", false}, // 10 digits
		{"", false},
	}

	for _, tc := range cases {
		got := validTaxID(normalizeTaxID(tc.taxID))
		assert.Equal(t, tc.valid, got, "tax id %q", tc.taxID)
	}
}

func TestCreateCustomer_NormalizesInput(t *testing.T) {
	svc := NewCustomerService(newStubCustomerRepo())

	resp, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "  maria   da silva  ",
		TaxID: "529.982.247-25",
	})
	require.NoError(t, err)

	assert.Equal(t, "Maria Da Silva", resp.Name)
	assert.Equal(t, "52998224725", resp.TaxID, "tax id stored as bare digits")
	assert.True(t, resp.Active)
}

func TestCreateCustomer_RejectsInvalidTaxID(t *testing.T) {
	svc := NewCustomerService(newStubCustomerRepo())

	_, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "Maria",
		TaxID: "11111111111",
	})
	require.Error(t, err)
	assert.Equal(t, domerr.KindValidation, domerr.KindOf(err))
}

func TestGetByTaxID_AcceptsFormattedInput(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "Maria",
		TaxID: "52998224725",
	})
	require.NoError(t, err)

	found, err := svc.GetByTaxID(context.Background(), "529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestDeactivateCustomer_HiddenFromTaxIDLookup(t *testing.T) {
	repo := newStubCustomerRepo()
	svc := NewCustomerService(repo)

	created, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "Maria",
		TaxID: "52998224725",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), uuid.MustParse(created.ID)))

	_, err = svc.GetByTaxID(context.Background(), "52998224725")
	assert.ErrorIs(t, err, domerr.ErrNotFound)

	// Direct id access still works for audit purposes.
	got, err := svc.Get(context.Background(), uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestUpdateCustomer_ParsesDates(t *testing.T) {
	svc := NewCustomerService(newStubCustomerRepo())

	created, err := svc.Create(context.Background(), dto.CreateCustomerRequest{
		Name:  "Maria",
		TaxID: "52998224725",
	})
	require.NoError(t, err)

	due := "2026-11-30"
	updated, err := svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdateCustomerRequest{
		BabyDueDate: &due,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.BabyDueDate)
	assert.Equal(t, due, *updated.BabyDueDate)

	bad := "30/11/2026"
	_, err = svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdateCustomerRequest{
		BabyDueDate: &bad,
	})
	require.Error(t, err)
	assert.Equal(t, domerr.KindValidation, domerr.KindOf(err))
}
