package model

import "github.com/google/uuid"

// PDVSession binds an operator to the sale their scanner is currently
// feeding. One active session per operator at a time.
type PDVSession struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:udx_pdv_active_operator,where:active" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SaleID uuid.UUID `gorm:"type:uuid;not null" json:"sale_id"`
	Sale   *Sale     `gorm:"foreignKey:SaleID" json:"sale,omitempty"`
	Active bool      `gorm:"not null;default:true;index" json:"active"`
}
