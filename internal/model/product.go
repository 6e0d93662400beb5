package model

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryFood           Category = "food"
	CategorySoftDrink      Category = "soft_drink"
	CategoryAlcoholicDrink Category = "alcoholic_drink"
	CategorySweets         Category = "sweets"
	CategoryAccessories    Category = "accessories"
	CategoryCigarettes     Category = "cigarettes"
)

type Product struct {
	BaseModel
	Name     string          `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock    int             `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	Category Category        `gorm:"type:varchar(20);not null" json:"category" validate:"required,oneof=food soft_drink alcoholic_drink sweets accessories cigarettes"`
	// Barcode is optional; NULL keeps the unique index from rejecting unscanned products
	Barcode *string `gorm:"type:varchar(50);uniqueIndex" json:"barcode,omitempty"`
}

// HasStock reports whether qty units can be taken from the shelf
func (p *Product) HasStock(qty int) bool {
	return qty > 0 && p.Stock >= qty
}
