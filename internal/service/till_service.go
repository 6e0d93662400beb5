package service

import (
	"errors"
	"time"

	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"
	"go-minimarket-pos/internal/ws"
	"go-minimarket-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTillNotFound    = errors.New("till session not found")
	ErrTillAlreadyOpen = errors.New("a till session is already open")
	ErrTillClosed      = errors.New("till session is already closed")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
)

// TillService runs the register's two-state machine: a session opens
// with a float and closes once with a counted amount.
type TillService interface {
	Open(req *OpenTillRequest, actorID string) (*model.TillSession, error)
	Close(id uuid.UUID, req *CloseTillRequest, actorID string) (*model.TillSession, error)
	Current() (*model.TillSession, error)
	List() ([]model.TillSession, error)
	Summary(id uuid.UUID) (*TillSummary, error)
	AddOutflow(tillID uuid.UUID, req *OutflowRequest, actorID string) (*model.CashOutflow, error)
}

type OpenTillRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float"`
	Notes        string          `json:"notes"`
}

type CloseTillRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount"`
	Notes         string          `json:"notes"`
}

type OutflowRequest struct {
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

type TillSummary struct {
	Session      *model.TillSession `json:"session"`
	TotalSales   decimal.Decimal    `json:"total_sales"`   // all payment methods, amount actually paid
	CashSales    decimal.Decimal    `json:"cash_sales"`    // cash take only
	TotalOutflow decimal.Decimal    `json:"total_outflow"` // money taken from the drawer
	ExpectedCash decimal.Decimal    `json:"expected_cash"` // float + cash take - outflows
}

type tillService struct {
	tillRepo repository.TillRepository
	saleRepo repository.SaleRepository
	wsHub    *ws.Hub
}

func NewTillService(tillRepo repository.TillRepository, saleRepo repository.SaleRepository, hub *ws.Hub) TillService {
	return &tillService{
		tillRepo: tillRepo,
		saleRepo: saleRepo,
		wsHub:    hub,
	}
}

func (s *tillService) Open(req *OpenTillRequest, actorID string) (*model.TillSession, error) {
	if req.OpeningFloat.IsNegative() {
		return nil, ErrNegativeAmount
	}

	// Single till: refuse a second open session
	if _, err := s.tillRepo.FindOpen(); err == nil {
		return nil, ErrTillAlreadyOpen
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	session := &model.TillSession{
		OpenedAt:     time.Now(),
		OpeningFloat: req.OpeningFloat,
		Notes:        req.Notes,
	}
	session.CreatedBy = actorID
	session.UpdatedBy = actorID

	if err := s.tillRepo.Create(session); err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("till_update", map[string]interface{}{
		"action":  "till_opened",
		"till_id": session.ID,
	})
	return session, nil
}

func (s *tillService) Close(id uuid.UUID, req *CloseTillRequest, actorID string) (*model.TillSession, error) {
	if req.ClosingAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	session, err := s.tillRepo.FindByID(id)
	if err != nil {
		return nil, ErrTillNotFound
	}
	if !session.IsOpen() {
		return nil, ErrTillClosed
	}

	now := time.Now()
	session.ClosingAmount = &req.ClosingAmount
	session.ClosedAt = &now
	if req.Notes != "" {
		session.Notes = req.Notes
	}
	session.UpdatedBy = actorID

	if err := s.tillRepo.Update(session); err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("till_update", map[string]interface{}{
		"action":  "till_closed",
		"till_id": session.ID,
	})
	return session, nil
}

func (s *tillService) Current() (*model.TillSession, error) {
	session, err := s.tillRepo.FindOpen()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTillNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *tillService) List() ([]model.TillSession, error) {
	return s.tillRepo.FindAll()
}

func (s *tillService) Summary(id uuid.UUID) (*TillSummary, error) {
	session, err := s.tillRepo.FindByID(id)
	if err != nil {
		return nil, ErrTillNotFound
	}

	start, end := session.OpenedAt, session.PeriodEnd()

	totalSales, err := s.saleRepo.AmountPaidBetween(start, end, false)
	if err != nil {
		return nil, err
	}
	cashSales, err := s.saleRepo.AmountPaidBetween(start, end, true)
	if err != nil {
		return nil, err
	}
	outflow, err := s.tillRepo.SumOutflows(session.ID)
	if err != nil {
		return nil, err
	}

	return &TillSummary{
		Session:      session,
		TotalSales:   totalSales,
		CashSales:    cashSales,
		TotalOutflow: outflow,
		ExpectedCash: session.OpeningFloat.Add(cashSales).Sub(outflow),
	}, nil
}

func (s *tillService) AddOutflow(tillID uuid.UUID, req *OutflowRequest, actorID string) (*model.CashOutflow, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, ErrNegativeAmount
	}

	session, err := s.tillRepo.FindByID(tillID)
	if err != nil {
		return nil, ErrTillNotFound
	}
	if !session.IsOpen() {
		return nil, ErrTillClosed
	}

	outflow := &model.CashOutflow{
		TillSessionID: session.ID,
		Description:   req.Description,
		Amount:        req.Amount,
		SpentAt:       time.Now(),
	}
	outflow.CreatedBy = actorID
	outflow.UpdatedBy = actorID

	if err := s.tillRepo.AddOutflow(outflow); err != nil {
		return nil, err
	}
	return outflow, nil
}
