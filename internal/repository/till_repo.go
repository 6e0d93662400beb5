package repository

import (
	"go-minimarket-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TillRepository interface {
	Create(session *model.TillSession) error
	Update(session *model.TillSession) error
	FindByID(id uuid.UUID) (*model.TillSession, error)
	FindOpen() (*model.TillSession, error)
	FindAll() ([]model.TillSession, error)

	AddOutflow(outflow *model.CashOutflow) error
	SumOutflows(sessionID uuid.UUID) (decimal.Decimal, error)
}

type tillRepo struct {
	db *gorm.DB
}

func NewTillRepo(db *gorm.DB) TillRepository {
	return &tillRepo{db}
}

func (r *tillRepo) Create(session *model.TillSession) error {
	return r.db.Create(session).Error
}

func (r *tillRepo) Update(session *model.TillSession) error {
	return r.db.Save(session).Error
}

func (r *tillRepo) FindByID(id uuid.UUID) (*model.TillSession, error) {
	var session model.TillSession
	err := r.db.Preload("Outflows").First(&session, "id = ?", id).Error
	return &session, err
}

// FindOpen returns the single open session, gorm.ErrRecordNotFound when
// the register is closed.
func (r *tillRepo) FindOpen() (*model.TillSession, error) {
	var session model.TillSession
	err := r.db.Where("closed_at IS NULL").Order("opened_at DESC").First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *tillRepo) FindAll() ([]model.TillSession, error) {
	var sessions []model.TillSession
	err := r.db.Preload("Outflows").Order("opened_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *tillRepo) AddOutflow(outflow *model.CashOutflow) error {
	return r.db.Create(outflow).Error
}

func (r *tillRepo) SumOutflows(sessionID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.CashOutflow{}).
		Where("till_session_id = ?", sessionID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
