package model

type CustomerKind string

const (
	KindCustomer CustomerKind = "customer" // walk-in buyer
	KindAccount  CustomerKind = "account"  // house account / tab
)

// Customer groups sales for labeling and debt tracking. Not involved in
// stock or total arithmetic.
type Customer struct {
	BaseModel
	Name  string       `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Phone string       `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Kind  CustomerKind `gorm:"type:varchar(20);not null;default:'customer'" json:"kind" validate:"required,oneof=customer account"`
	Team  string       `gorm:"type:varchar(100)" json:"team,omitempty"`
	Color string       `gorm:"type:varchar(20)" json:"color,omitempty"`
}
