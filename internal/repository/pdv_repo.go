package repository

import (
	"go-minimarket-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PDVRepository interface {
	// FindActiveByUser joins tx when given one, so getOrCreate checks
	// run inside the same transaction as the create
	FindActiveByUser(tx *gorm.DB, userID uuid.UUID) (*model.PDVSession, error)
	Create(tx *gorm.DB, session *model.PDVSession) error
	Deactivate(sessionID uuid.UUID) error
}

type pdvRepo struct {
	db *gorm.DB
}

func NewPDVRepo(db *gorm.DB) PDVRepository {
	return &pdvRepo{db}
}

func (r *pdvRepo) FindActiveByUser(tx *gorm.DB, userID uuid.UUID) (*model.PDVSession, error) {
	if tx == nil {
		tx = r.db
	}
	var session model.PDVSession
	err := tx.Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *pdvRepo) Create(tx *gorm.DB, session *model.PDVSession) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(session).Error
}

func (r *pdvRepo) Deactivate(sessionID uuid.UUID) error {
	return r.db.Model(&model.PDVSession{}).
		Where("id = ?", sessionID).
		Update("active", false).Error
}
