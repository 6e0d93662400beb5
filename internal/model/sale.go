package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "pix"
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentCash   PaymentMethod = "cash"
	PaymentOpen   PaymentMethod = "open" // unsettled / running tab
)

// Sale is one register ticket. Total, Outstanding, Change and Paid are
// derived fields owned by the sale service; handlers never write them.
type Sale struct {
	BaseModel
	SoldAt        time.Time     `gorm:"not null;index" json:"sold_at"`
	CustomerID    *uuid.UUID    `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer      *Customer     `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null;default:'cash'" json:"payment_method" validate:"required,oneof=pix credit debit cash open"`

	// AmountPaid and Change are only meaningful for cash sales
	AmountPaid  *decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount_paid,omitempty"`
	Change      *decimal.Decimal `gorm:"column:change_due;type:decimal(10,2)" json:"change,omitempty"`
	Total       decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	Outstanding decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"outstanding"`
	Paid        bool             `gorm:"not null;default:false" json:"paid"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if err := s.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	// SoldAt is immutable once set
	if s.SoldAt.IsZero() {
		s.SoldAt = time.Now()
	}
	return nil
}

func (s *Sale) IsCash() bool {
	return s.PaymentMethod == PaymentCash
}

// SaleItem is one product-quantity line within a sale. Subtotal snapshots
// quantity x product price at save time and is never re-derived when the
// product price changes later.
type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}
