package repository

import (
	"go-minimarket-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	Update(customer *model.Customer) error
	Delete(id uuid.UUID) error
	FindByID(id uuid.UUID) (*model.Customer, error)
	FindAll() ([]model.Customer, error)

	// Purchase summary for the customer listing screen
	PurchaseSummary(customerID uuid.UUID) (units int, amountPaid decimal.Decimal, err error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

// Delete detaches the customer from their sales before removing the row,
// so historical sales survive with a null customer.
func (r *customerRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Sale{}).
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Customer{}, "id = ?", id).Error
	})
}

func (r *customerRepo) FindByID(id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ?", id).Error
	return &customer, err
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) PurchaseSummary(customerID uuid.UUID) (int, decimal.Decimal, error) {
	var units int
	err := r.db.Model(&model.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.customer_id = ? AND sales.deleted_at IS NULL", customerID).
		Select("COALESCE(SUM(sale_items.quantity), 0)").
		Scan(&units).Error
	if err != nil {
		return 0, decimal.Zero, err
	}

	var paid decimal.Decimal
	err = r.db.Model(&model.Sale{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(amount_paid), 0)").
		Scan(&paid).Error
	if err != nil {
		return 0, decimal.Zero, err
	}

	return units, paid, nil
}
