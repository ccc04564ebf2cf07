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

// stubRegisterRepo is an in-memory RegisterRepository. Cash summaries are
// configured per session so close-time math can be asserted directly.
type stubRegisterRepo struct {
	sessions  map[uuid.UUID]*model.CashRegister
	summaries map[uuid.UUID]*repository.RegisterCashSummary
}

func newStubRegisterRepo() *stubRegisterRepo {
	return &stubRegisterRepo{
		sessions:  make(map[uuid.UUID]*model.CashRegister),
		summaries: make(map[uuid.UUID]*repository.RegisterCashSummary),
	}
}

func (r *stubRegisterRepo) CreateSession(_ context.Context, s *model.CashRegister) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *stubRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CashRegister, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubRegisterRepo) FindOpenByUser(_ context.Context, userID uuid.UUID) (*model.CashRegister, error) {
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsOpen() {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRegisterRepo) UpdateSession(_ context.Context, s *model.CashRegister) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *stubRegisterRepo) ListClosed(_ context.Context, _, _ int) ([]model.CashRegister, int64, error) {
	var out []model.CashRegister
	for _, s := range r.sessions {
		if !s.IsOpen() {
			out = append(out, *s)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubRegisterRepo) SumCashFlow(_ context.Context, registerID uuid.UUID) (*repository.RegisterCashSummary, error) {
	if summary, ok := r.summaries[registerID]; ok {
		return summary, nil
	}
	return &repository.RegisterCashSummary{
		CashReceived: decimal.Zero,
		ChangeGiven:  decimal.Zero,
	}, nil
}

var _ repository.RegisterRepository = (*stubRegisterRepo)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestOpenRegister_RejectsSecondOpenSession(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := NewRegisterService(repo)
	userID := uuid.New()

	first, err := svc.Open(context.Background(), userID, dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.RegisterOpen), first.Status)

	_, err = svc.Open(context.Background(), userID, dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domerr.ErrDuplicateOpenSession)
}

func TestOpenRegister_OtherOperatorUnaffected(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := NewRegisterService(repo)

	_, err := svc.Open(context.Background(), uuid.New(), dto.OpenRegisterRequest{OpeningBalance: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), uuid.New(), dto.OpenRegisterRequest{OpeningBalance: decimal.NewFromInt(100)})
	require.NoError(t, err)
}

func TestOpenRegister_RejectsNegativeOpeningBalance(t *testing.T) {
	svc := NewRegisterService(newStubRegisterRepo())

	_, err := svc.Open(context.Background(), uuid.New(), dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domerr.ErrInvalidAmount)
}

func TestCloseRegister_RejectsNegativeCountedValue(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := NewRegisterService(repo)
	userID := uuid.New()

	opened, err := svc.Open(context.Background(), userID, dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), uuid.MustParse(opened.ID), userID, dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(-10),
	})
	assert.ErrorIs(t, err, domerr.ErrInvalidAmount)

	// The session is still open and closable with a valid count.
	_, err = svc.Close(context.Background(), uuid.MustParse(opened.ID), userID, dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
}

func TestCloseRegister_ComputesExpectedAndDifference(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := NewRegisterService(repo)
	userID := uuid.New()

	opened, err := svc.Open(context.Background(), userID, dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	registerID := uuid.MustParse(opened.ID)

	// Session took 250 in cash and handed back 30 in change.
	repo.summaries[registerID] = &repository.RegisterCashSummary{
		CashReceived:   decimal.NewFromInt(250),
		ChangeGiven:    decimal.NewFromInt(30),
		SalesCompleted: 4,
	}

	report, err := svc.Close(context.Background(), registerID, userID, dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	assert.Equal(t, string(model.RegisterClosed), report.Status)
	assert.True(t, report.ExpectedBalance.Equal(decimal.NewFromInt(320)), "expected = opening + cash - change")
	require.NotNil(t, report.ClosingBalance)
	assert.True(t, report.ClosingBalance.Equal(decimal.NewFromInt(300)))
	require.NotNil(t, report.Difference)
	assert.True(t, report.Difference.Equal(decimal.NewFromInt(-20)))
	assert.Equal(t, int64(4), report.SalesCompleted)
	require.NotNil(t, report.ClosedAt)
}

func TestCloseRegister_AlreadyClosed(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := NewRegisterService(repo)
	userID := uuid.New()

	opened, err := svc.Open(context.Background(), userID, dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	registerID := uuid.MustParse(opened.ID)

	_, err = svc.Close(context.Background(), registerID, userID, dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), registerID, userID, dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domerr.ErrAlreadyClosed)
}

func TestCloseRegister_HidesOtherOperatorsSession(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := NewRegisterService(repo)

	opened, err := svc.Open(context.Background(), uuid.New(), dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	// Another operator cannot tell this session exists.
	_, err = svc.Close(context.Background(), uuid.MustParse(opened.ID), uuid.New(), dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domerr.ErrRegisterNotFound)
}

func TestRequireOpen_ClosedSession(t *testing.T) {
	repo := newStubRegisterRepo()
	svc := NewRegisterService(repo)
	userID := uuid.New()

	opened, err := svc.Open(context.Background(), userID, dto.OpenRegisterRequest{
		OpeningBalance: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	registerID := uuid.MustParse(opened.ID)

	_, err = svc.Close(context.Background(), registerID, userID, dto.CloseRegisterRequest{
		CountedValue: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = svc.RequireOpen(context.Background(), registerID, userID)
	assert.ErrorIs(t, err, domerr.ErrRegisterClosed)
}

func TestCurrent_NoOpenSession(t *testing.T) {
	svc := NewRegisterService(newStubRegisterRepo())

	_, err := svc.Current(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domerr.ErrNoRegisterSession)
}
