package service

import (
	"errors"

	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"
	"go-minimarket-pos/internal/ws"
	"go-minimarket-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Error definitions
var (
	ErrSaleNotFound      = errors.New("sale not found")
	ErrItemNotFound      = errors.New("sale item not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrMissingPayment    = errors.New("amount paid is required for cash sales")
	ErrUnexpectedPayment = errors.New("amount paid and change only apply to cash sales")
	ErrNoCustomer        = errors.New("a customer must be selected")
)

// SaleService is the single owner of the stock / sale consistency rules:
// every line-item mutation goes through here, adjusts product stock and
// recomputes the sale's derived fields inside one transaction.
type SaleService interface {
	CreateSale(req *CreateSaleRequest, actorID string) (*model.Sale, error)
	OpenSale(tx *gorm.DB, actorID string) (*model.Sale, error)
	SettleSale(saleID uuid.UUID, req *SettleSaleRequest, actorID string) (*model.Sale, error)
	AddItem(saleID, productID uuid.UUID, qty int, actorID string) (*model.SaleItem, error)
	RemoveItem(itemID uuid.UUID, actorID string) error
	DeleteSale(saleID uuid.UUID, actorID string) error
	MarkPaid(ids []uuid.UUID, actorID string) (int64, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	ListSales() ([]model.Sale, error)
}

type CreateSaleRequest struct {
	CustomerID    string           `json:"customer_id" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=pix credit debit cash open"`
	AmountPaid    *decimal.Decimal `json:"amount_paid"`
	Items         []CreateSaleItem `json:"items"`
}

type CreateSaleItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type SettleSaleRequest struct {
	CustomerID    *string          `json:"customer_id"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=pix credit debit cash open"`
	AmountPaid    *decimal.Decimal `json:"amount_paid"`
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewSaleService(sRepo repository.SaleRepository, pRepo repository.ProductRepository, cRepo repository.CustomerRepository, db *gorm.DB, hub *ws.Hub) SaleService {
	return &saleService{
		saleRepo:     sRepo,
		productRepo:  pRepo,
		customerRepo: cRepo,
		db:           db,
		wsHub:        hub,
	}
}

// lockForUpdate takes a row-level lock so concurrent stock mutations on
// the same product serialize. SQLite has no row locks and its driver
// drops the clause; postgres emits SELECT ... FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ValidateSale is the payment validation shared by API and UI entry
// points. Recomputation call sites deliberately skip it: deleting the
// last item from a half-paid sale must still go through.
func ValidateSale(sale *model.Sale) error {
	if sale.CustomerID == nil {
		return ErrNoCustomer
	}
	if sale.IsCash() {
		if sale.AmountPaid == nil {
			return ErrMissingPayment
		}
		return nil
	}
	if sale.AmountPaid != nil {
		return ErrUnexpectedPayment
	}
	if sale.Change != nil && !sale.Change.IsZero() {
		return ErrUnexpectedPayment
	}
	return nil
}

func (s *saleService) CreateSale(req *CreateSaleRequest, actorID string) (*model.Sale, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	if _, err := s.customerRepo.FindByID(customerID); err != nil {
		return nil, ErrCustomerNotFound
	}

	sale := &model.Sale{
		CustomerID:    &customerID,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		AmountPaid:    req.AmountPaid,
	}
	sale.CreatedBy = actorID
	sale.UpdatedBy = actorID

	if err := ValidateSale(sale); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}
		for _, line := range req.Items {
			productID, err := uuid.Parse(line.ProductID)
			if err != nil {
				return ErrProductNotFound
			}
			if _, err := s.addItemTx(tx, sale.ID, productID, line.Quantity, actorID); err != nil {
				return err
			}
		}
		return s.recomputeTx(tx, sale.ID)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.saleRepo.FindByID(sale.ID)
	if err != nil {
		return nil, err
	}
	s.wsHub.BroadcastEvent("sale_update", map[string]interface{}{
		"action": "sale_created",
		"sale":   map[string]interface{}{"id": created.ID, "total": created.Total, "paid": created.Paid},
	})
	return created, nil
}

// OpenSale creates an unsettled sale with no customer attached yet.
// This is the validation-exempt entry the PDV scanner feeds into; the
// payment rules are enforced later on SettleSale.
func (s *saleService) OpenSale(tx *gorm.DB, actorID string) (*model.Sale, error) {
	sale := &model.Sale{PaymentMethod: model.PaymentOpen}
	sale.CreatedBy = actorID
	sale.UpdatedBy = actorID
	if err := s.saleRepo.Create(tx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *saleService) SettleSale(saleID uuid.UUID, req *SettleSaleRequest, actorID string) (*model.Sale, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.First(&sale, "id = ?", saleID).Error; err != nil {
			return ErrSaleNotFound
		}

		if req.CustomerID != nil {
			customerID, err := uuid.Parse(*req.CustomerID)
			if err != nil {
				return ErrCustomerNotFound
			}
			if err := tx.First(&model.Customer{}, "id = ?", customerID).Error; err != nil {
				return ErrCustomerNotFound
			}
			sale.CustomerID = &customerID
		}
		sale.PaymentMethod = model.PaymentMethod(req.PaymentMethod)
		sale.AmountPaid = req.AmountPaid
		sale.Change = nil

		if err := ValidateSale(&sale); err != nil {
			return err
		}

		if err := tx.Model(&model.Sale{}).Where("id = ?", sale.ID).
			Updates(map[string]interface{}{
				"customer_id":    sale.CustomerID,
				"payment_method": sale.PaymentMethod,
				"amount_paid":    sale.AmountPaid,
				"updated_by":     actorID,
			}).Error; err != nil {
			return err
		}
		return s.recomputeTx(tx, sale.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.FindByID(saleID)
}

func (s *saleService) AddItem(saleID, productID uuid.UUID, qty int, actorID string) (*model.SaleItem, error) {
	var item *model.SaleItem
	var newStock int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = s.addItemTx(tx, saleID, productID, qty, actorID)
		if err != nil {
			return err
		}
		var product model.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			return err
		}
		newStock = product.Stock
		return s.recomputeTx(tx, saleID)
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action":     "item_added",
		"product_id": productID,
		"new_stock":  newStock,
		"sale_id":    saleID,
	})
	return item, nil
}

// addItemTx holds the merge policy: rescanning a product already on the
// sale increments the existing line and re-snapshots its subtotal, and
// the stock check covers only the incremental quantity.
func (s *saleService) addItemTx(tx *gorm.DB, saleID, productID uuid.UUID, qty int, actorID string) (*model.SaleItem, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	if err := tx.First(&model.Sale{}, "id = ?", saleID).Error; err != nil {
		return nil, ErrSaleNotFound
	}

	var product model.Product
	// Pessimistic Locking: concurrent scans of the same barcode must
	// serialize their stock decrements
	if err := lockForUpdate(tx).First(&product, "id = ?", productID).Error; err != nil {
		return nil, ErrProductNotFound
	}

	if product.Stock < qty {
		return nil, ErrInsufficientStock
	}

	var item model.SaleItem
	err := tx.Where("sale_id = ? AND product_id = ?", saleID, productID).First(&item).Error
	switch {
	case err == nil:
		item.Quantity += qty
		item.Subtotal = product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.UpdatedBy = actorID
		if err := tx.Save(&item).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = model.SaleItem{
			SaleID:    saleID,
			ProductID: productID,
			Quantity:  qty,
			Subtotal:  product.Price.Mul(decimal.NewFromInt(int64(qty))),
		}
		item.CreatedBy = actorID
		item.UpdatedBy = actorID
		if err := tx.Create(&item).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock-qty, actorID); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *saleService) RemoveItem(itemID uuid.UUID, actorID string) error {
	var saleID uuid.UUID
	var productID uuid.UUID
	var newStock int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item model.SaleItem
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			return ErrItemNotFound
		}
		saleID = item.SaleID
		productID = item.ProductID

		var product model.Product
		if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
			return ErrProductNotFound
		}

		// Stock goes back on the shelf before the row disappears
		newStock = product.Stock + item.Quantity
		if err := s.productRepo.UpdateStock(tx, product.ID, newStock, actorID); err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return s.recomputeTx(tx, item.SaleID)
	})
	if err != nil {
		return err
	}

	s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action":     "item_removed",
		"product_id": productID,
		"new_stock":  newStock,
		"sale_id":    saleID,
	})
	return nil
}

// DeleteSale cascades through the items on a single code path so each
// item's quantity is credited back exactly once.
func (s *saleService) DeleteSale(saleID uuid.UUID, actorID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.First(&sale, "id = ?", saleID).Error; err != nil {
			return ErrSaleNotFound
		}

		var items []model.SaleItem
		if err := tx.Where("sale_id = ?", saleID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			var product model.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock+item.Quantity, actorID); err != nil {
				return err
			}
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
		}

		// Any scanner session still pointing at this sale is dead now
		if err := tx.Model(&model.PDVSession{}).
			Where("sale_id = ?", saleID).
			Update("active", false).Error; err != nil {
			return err
		}

		return tx.Delete(&sale).Error
	})
}

func (s *saleService) MarkPaid(ids []uuid.UUID, actorID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.saleRepo.MarkPaid(ids, actorID)
}

func (s *saleService) GetSale(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

func (s *saleService) ListSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

// recomputeTx refreshes the sale's derived fields from its current
// items. Numbers only — payment validation happens on the explicit
// create/settle paths, never here.
func (s *saleService) recomputeTx(tx *gorm.DB, saleID uuid.UUID) error {
	var sale model.Sale
	if err := tx.First(&sale, "id = ?", saleID).Error; err != nil {
		return err
	}

	var items []model.SaleItem
	if err := tx.Where("sale_id = ?", saleID).Find(&items).Error; err != nil {
		return err
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	sale.Total = total

	if sale.IsCash() {
		if sale.AmountPaid != nil {
			change := decimal.Max(sale.AmountPaid.Sub(total), decimal.Zero)
			outstanding := decimal.Max(total.Sub(*sale.AmountPaid), decimal.Zero)
			sale.Change = &change
			sale.Outstanding = outstanding
			sale.Paid = sale.AmountPaid.GreaterThanOrEqual(total)
		}
	} else {
		// Non-cash sales never auto-settle; only the mark-paid
		// override flips the flag
		sale.AmountPaid = nil
		sale.Change = nil
		sale.Outstanding = decimal.Zero
		sale.Paid = false
	}

	return s.saleRepo.UpdateDerived(tx, &sale)
}
