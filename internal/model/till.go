package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TillSession is a bounded register period: opened with a float, closed
// once with a counted amount. Closing is irreversible.
type TillSession struct {
	BaseModel
	OpenedAt      time.Time        `gorm:"not null;index" json:"opened_at"`
	OpeningFloat  decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"opening_float"`
	ClosingAmount *decimal.Decimal `gorm:"type:decimal(10,2)" json:"closing_amount,omitempty"`
	ClosedAt      *time.Time       `json:"closed_at,omitempty"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`

	Outflows []CashOutflow `gorm:"foreignKey:TillSessionID" json:"outflows,omitempty"`
}

func (t *TillSession) IsOpen() bool {
	return t.ClosedAt == nil
}

// PeriodEnd is the upper bound used for period totals: close time once
// closed, otherwise now.
func (t *TillSession) PeriodEnd() time.Time {
	if t.ClosedAt != nil {
		return *t.ClosedAt
	}
	return time.Now()
}

// CashOutflow is money taken out of the till during a session
// (supplier paid from the drawer, change run, etc).
type CashOutflow struct {
	BaseModel
	TillSessionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"till_session_id"`
	Description   string          `gorm:"type:varchar(255);not null" json:"description" validate:"required"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	SpentAt       time.Time       `gorm:"not null" json:"spent_at"`
}
