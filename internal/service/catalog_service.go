package service

import (
	"errors"

	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"
	"go-minimarket-pos/internal/ws"
	"go-minimarket-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDuplicateBarcode = errors.New("barcode already exists")

type CatalogService interface {
	CreateProduct(req *model.Product, actorID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, actorID string) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	FindByBarcode(barcode string) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, db *gorm.DB, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		db:          db,
		wsHub:       hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, actorID string) error {
	if err := validator.FirstError(req); err != nil {
		return err
	}
	if req.Price.IsNegative() {
		return ErrNegativeAmount
	}

	// Business rule: barcodes are unique across the catalog
	if req.Barcode != nil && *req.Barcode != "" {
		existing, _ := s.productRepo.FindByBarcode(*req.Barcode)
		if existing != nil && existing.ID != uuid.Nil {
			return ErrDuplicateBarcode
		}
	}

	req.CreatedBy = actorID
	req.UpdatedBy = actorID

	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action": "product_created",
		"product": map[string]interface{}{
			"id":    req.ID,
			"name":  req.Name,
			"stock": req.Stock,
			"price": req.Price,
		},
	})
	return nil
}

func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, actorID string) (*model.Product, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if req.Stock < 0 {
		return nil, ErrInvalidQuantity
	}

	var updated *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		// Stock-bearing update, lock the row
		if err := lockForUpdate(tx).First(&existing, "id = ?", id).Error; err != nil {
			return ErrProductNotFound
		}

		if req.Barcode != nil && *req.Barcode != "" {
			other, err := s.productRepo.FindByBarcode(*req.Barcode)
			if err == nil && other.ID != existing.ID {
				return ErrDuplicateBarcode
			}
		}

		oldStock := existing.Stock
		existing.Name = req.Name
		existing.Price = req.Price
		existing.Stock = req.Stock
		existing.Category = req.Category
		existing.Barcode = req.Barcode
		existing.UpdatedBy = actorID

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		updated = &existing

		s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
			"action": "product_updated",
			"product": map[string]interface{}{
				"id":        existing.ID,
				"name":      existing.Name,
				"old_stock": oldStock,
				"new_stock": existing.Stock,
				"price":     existing.Price,
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) FindByBarcode(barcode string) (*model.Product, error) {
	product, err := s.productRepo.FindByBarcode(barcode)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}
