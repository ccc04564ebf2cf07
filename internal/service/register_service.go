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
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RegisterService manages cash register sessions: the open-to-close working
// period of one operator. Every completed sale is tied to an open session,
// and closing reconciles the counted drawer against the expected balance.
type RegisterService interface {
	Open(ctx context.Context, userID uuid.UUID, req dto.OpenRegisterRequest) (*dto.RegisterReportResponse, error)
	Close(ctx context.Context, registerID, userID uuid.UUID, req dto.CloseRegisterRequest) (*dto.RegisterReportResponse, error)
	Current(ctx context.Context, userID uuid.UUID) (*dto.RegisterReportResponse, error)
	Report(ctx context.Context, registerID uuid.UUID) (*dto.RegisterReportResponse, error)
	History(ctx context.Context, page, limit int) ([]dto.RegisterReportResponse, int64, error)

	// RequireOpen returns the session only if it belongs to the user and is
	// still OPEN. Used by the sale flow before accepting a draft.
	RequireOpen(ctx context.Context, registerID, userID uuid.UUID) (*model.CashRegister, error)
}

type registerService struct {
	registers repository.RegisterRepository
}

func NewRegisterService(registers repository.RegisterRepository) RegisterService {
	return &registerService{registers: registers}
}

func (s *registerService) Open(ctx context.Context, userID uuid.UUID, req dto.OpenRegisterRequest) (*dto.RegisterReportResponse, error) {
	if req.OpeningBalance.IsNegative() {
		return nil, domerr.ErrInvalidAmount
	}

	if _, err := s.registers.FindOpenByUser(ctx, userID); err == nil {
		return nil, domerr.ErrDuplicateOpenSession
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session := &model.CashRegister{
		UserID:         userID,
		Status:         model.RegisterOpen,
		OpeningBalance: req.OpeningBalance,
		OpenedAt:       time.Now(),
	}
	if err := s.registers.CreateSession(ctx, session); err != nil {
		// The partial unique index catches the race between the check above
		// and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domerr.ErrDuplicateOpenSession
		}
		return nil, err
	}

	log.Info().
		Str("register_id", session.ID.String()).
		Str("user_id", userID.String()).
		Str("opening_balance", req.OpeningBalance.String()).
		Msg("cash register opened")

	return s.Report(ctx, session.ID)
}

func (s *registerService) Close(ctx context.Context, registerID, userID uuid.UUID, req dto.CloseRegisterRequest) (*dto.RegisterReportResponse, error) {
	session, err := s.registers.FindByID(ctx, registerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrRegisterNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, domerr.ErrRegisterNotFound
	}
	if !session.IsOpen() {
		return nil, domerr.ErrAlreadyClosed
	}
	if req.CountedValue.IsNegative() {
		return nil, domerr.ErrInvalidAmount
	}

	summary, err := s.registers.SumCashFlow(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	expected := session.OpeningBalance.
		Add(summary.CashReceived).
		Sub(summary.ChangeGiven)
	difference := req.CountedValue.Sub(expected)
	now := time.Now()

	session.Status = model.RegisterClosed
	session.ClosingBalance = &req.CountedValue
	session.ExpectedBalance = &expected
	session.Difference = &difference
	session.ClosedAt = &now

	if err := s.registers.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Info().
		Str("register_id", session.ID.String()).
		Str("expected", expected.String()).
		Str("counted", req.CountedValue.String()).
		Str("difference", difference.String()).
		Msg("cash register closed")

	return s.Report(ctx, session.ID)
}

func (s *registerService) Current(ctx context.Context, userID uuid.UUID) (*dto.RegisterReportResponse, error) {
	session, err := s.registers.FindOpenByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrNoRegisterSession
		}
		return nil, err
	}
	return s.Report(ctx, session.ID)
}

func (s *registerService) Report(ctx context.Context, registerID uuid.UUID) (*dto.RegisterReportResponse, error) {
	session, err := s.registers.FindByID(ctx, registerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrRegisterNotFound
		}
		return nil, err
	}

	summary, err := s.registers.SumCashFlow(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return buildReport(session, summary), nil
}

func (s *registerService) History(ctx context.Context, page, limit int) ([]dto.RegisterReportResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	sessions, total, err := s.registers.ListClosed(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	reports := make([]dto.RegisterReportResponse, 0, len(sessions))
	for i := range sessions {
		summary, err := s.registers.SumCashFlow(ctx, sessions[i].ID)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *buildReport(&sessions[i], summary))
	}
	return reports, total, nil
}

func (s *registerService) RequireOpen(ctx context.Context, registerID, userID uuid.UUID) (*model.CashRegister, error) {
	session, err := s.registers.FindByID(ctx, registerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrRegisterNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, domerr.ErrRegisterNotFound
	}
	if !session.IsOpen() {
		return nil, domerr.ErrRegisterClosed
	}
	return session, nil
}

func buildReport(session *model.CashRegister, summary *repository.RegisterCashSummary) *dto.RegisterReportResponse {
	expected := session.OpeningBalance.
		Add(summary.CashReceived).
		Sub(summary.ChangeGiven)
	if session.ExpectedBalance != nil {
		// Closed sessions keep the balance frozen at close time.
		expected = *session.ExpectedBalance
	}

	operator := ""
	if session.User != nil {
		operator = session.User.Name
	}

	report := &dto.RegisterReportResponse{
		ID:              session.ID.String(),
		Operator:        operator,
		Status:          string(session.Status),
		OpeningBalance:  session.OpeningBalance,
		CashReceived:    summary.CashReceived,
		ChangeGiven:     summary.ChangeGiven,
		ExpectedBalance: expected,
		ClosingBalance:  session.ClosingBalance,
		Difference:      session.Difference,
		SalesCompleted:  summary.SalesCompleted,
		OpenedAt:        session.OpenedAt.Format(time.RFC3339),
	}
	if session.ClosedAt != nil {
		closed := session.ClosedAt.Format(time.RFC3339)
		report.ClosedAt = &closed
	}
	return report
}
