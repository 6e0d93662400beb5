package service

import (
	"errors"

	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNoActiveSession = errors.New("no active register session for this operator")

// PDVService backs the barcode scanner at the register: each scan looks
// the product up by barcode and feeds the operator's in-progress sale
// through the sale service, so the merge and stock rules apply the same
// here as everywhere else.
type PDVService interface {
	Scan(userID uuid.UUID, barcode string) (*ScanResult, error)
	CurrentSale(userID uuid.UUID) (*model.Sale, error)
	FinishSession(userID uuid.UUID) error
}

type ScanResult struct {
	Product   string          `json:"product"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	SaleID    uuid.UUID       `json:"sale_id"`
	Total     decimal.Decimal `json:"total"`
}

type pdvService struct {
	pdvRepo     repository.PDVRepository
	productRepo repository.ProductRepository
	saleService SaleService
	db          *gorm.DB
}

func NewPDVService(pdvRepo repository.PDVRepository, productRepo repository.ProductRepository, saleService SaleService, db *gorm.DB) PDVService {
	return &pdvService{
		pdvRepo:     pdvRepo,
		productRepo: productRepo,
		saleService: saleService,
		db:          db,
	}
}

func (s *pdvService) Scan(userID uuid.UUID, barcode string) (*ScanResult, error) {
	product, err := s.productRepo.FindByBarcode(barcode)
	if err != nil {
		return nil, ErrProductNotFound
	}

	session, err := s.getOrCreateSession(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.saleService.AddItem(session.SaleID, product.ID, 1, userID.String())
	if err != nil {
		return nil, err
	}

	sale, err := s.saleService.GetSale(session.SaleID)
	if err != nil {
		return nil, err
	}

	return &ScanResult{
		Product:   product.Name,
		ProductID: product.ID,
		Quantity:  item.Quantity,
		Subtotal:  item.Subtotal,
		SaleID:    sale.ID,
		Total:     sale.Total,
	}, nil
}

func (s *pdvService) CurrentSale(userID uuid.UUID) (*model.Sale, error) {
	session, err := s.pdvRepo.FindActiveByUser(nil, userID)
	if err != nil {
		return nil, ErrNoActiveSession
	}
	return s.saleService.GetSale(session.SaleID)
}

// FinishSession detaches the operator from their sale, typically after
// SettleSale. The next scan starts a fresh ticket.
func (s *pdvService) FinishSession(userID uuid.UUID) error {
	session, err := s.pdvRepo.FindActiveByUser(nil, userID)
	if err != nil {
		return ErrNoActiveSession
	}
	return s.pdvRepo.Deactivate(session.ID)
}

// getOrCreateSession checks and creates inside one transaction; the
// partial unique index on (user_id) where active backstops concurrent
// first scans, so at most one session wins.
func (s *pdvService) getOrCreateSession(userID uuid.UUID) (*model.PDVSession, error) {
	var session *model.PDVSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.pdvRepo.FindActiveByUser(tx, userID)
		if err == nil {
			session = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		sale, err := s.saleService.OpenSale(tx, userID.String())
		if err != nil {
			return err
		}
		session = &model.PDVSession{
			UserID: userID,
			SaleID: sale.ID,
			Active: true,
		}
		session.CreatedBy = userID.String()
		session.UpdatedBy = userID.String()
		return s.pdvRepo.Create(tx, session)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}
