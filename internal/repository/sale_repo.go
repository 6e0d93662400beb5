package repository

import (
	"time"

	"go-minimarket-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindAll() ([]model.Sale, error)
	FindBetween(start, end time.Time) ([]model.Sale, error)
	MarkPaid(ids []uuid.UUID, updatedBy string) (int64, error)

	// Derived-field write used by the sale service after recomputation
	UpdateDerived(tx *gorm.DB, sale *model.Sale) error

	// Aggregations for reports and till summaries
	UnitsSoldBetween(start, end time.Time) (int, error)
	RevenueBetween(start, end time.Time) (decimal.Decimal, error)
	RevenueByPaymentMethod(start, end time.Time) (map[model.PaymentMethod]decimal.Decimal, error)
	RevenueByCategory(start, end time.Time) (map[model.Category]decimal.Decimal, error)
	AmountPaidBetween(start, end time.Time, onlyCash bool) (decimal.Decimal, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// itemOrder keeps a ticket's lines in the order they were rung up
func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sale_items.created_at ASC")
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Customer").Preload("Items", itemOrder).Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Customer").Preload("Items", itemOrder).Preload("Items.Product").
		Order("sold_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindBetween(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Customer").Preload("Items", itemOrder).Preload("Items.Product").
		Where("sold_at >= ? AND sold_at < ?", start, end).
		Order("sold_at ASC").Find(&sales).Error
	return sales, err
}

// MarkPaid is the administrative override: flips the paid flag directly,
// no recomputation of totals or change.
func (r *saleRepo) MarkPaid(ids []uuid.UUID, updatedBy string) (int64, error) {
	res := r.db.Model(&model.Sale{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"paid":       true,
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}

func (r *saleRepo) UpdateDerived(tx *gorm.DB, sale *model.Sale) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]interface{}{
			"total":       sale.Total,
			"amount_paid": sale.AmountPaid,
			"change_due":  sale.Change,
			"outstanding": sale.Outstanding,
			"paid":        sale.Paid,
		}).Error
}

func (r *saleRepo) UnitsSoldBetween(start, end time.Time) (int, error) {
	var units int
	err := r.db.Model(&model.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sold_at >= ? AND sales.sold_at < ? AND sales.deleted_at IS NULL", start, end).
		Select("COALESCE(SUM(sale_items.quantity), 0)").
		Scan(&units).Error
	return units, err
}

func (r *saleRepo) RevenueBetween(start, end time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.Model(&model.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sold_at >= ? AND sales.sold_at < ? AND sales.deleted_at IS NULL", start, end).
		Select("COALESCE(SUM(sale_items.subtotal), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) RevenueByPaymentMethod(start, end time.Time) (map[model.PaymentMethod]decimal.Decimal, error) {
	rows, err := r.db.Model(&model.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Where("sales.sold_at >= ? AND sales.sold_at < ? AND sales.deleted_at IS NULL", start, end).
		Select("sales.payment_method, COALESCE(SUM(sale_items.subtotal), 0)").
		Group("sales.payment_method").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[model.PaymentMethod]decimal.Decimal)
	for rows.Next() {
		var method string
		var total decimal.Decimal
		if err := rows.Scan(&method, &total); err != nil {
			return nil, err
		}
		result[model.PaymentMethod(method)] = total
	}
	return result, rows.Err()
}

func (r *saleRepo) RevenueByCategory(start, end time.Time) (map[model.Category]decimal.Decimal, error) {
	rows, err := r.db.Model(&model.SaleItem{}).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.sold_at >= ? AND sales.sold_at < ? AND sales.deleted_at IS NULL", start, end).
		Select("products.category, COALESCE(SUM(sale_items.subtotal), 0)").
		Group("products.category").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[model.Category]decimal.Decimal)
	for rows.Next() {
		var category string
		var total decimal.Decimal
		if err := rows.Scan(&category, &total); err != nil {
			return nil, err
		}
		result[model.Category(category)] = total
	}
	return result, rows.Err()
}

// AmountPaidBetween sums the money actually handed over in the window.
// With onlyCash it is restricted to cash sales, which is what the till
// drawer count cares about.
func (r *saleRepo) AmountPaidBetween(start, end time.Time, onlyCash bool) (decimal.Decimal, error) {
	q := r.db.Model(&model.Sale{}).
		Where("sold_at >= ? AND sold_at < ?", start, end)
	if onlyCash {
		q = q.Where("payment_method = ?", model.PaymentCash)
	}
	var total decimal.Decimal
	err := q.Select("COALESCE(SUM(amount_paid), 0)").Scan(&total).Error
	return total, err
}
