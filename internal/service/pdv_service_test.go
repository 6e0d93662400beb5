package service

import (
	"errors"
	"testing"

	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newPDVSvc(db *gorm.DB) PDVService {
	return NewPDVService(repository.NewPDVRepo(db), repository.NewProductRepo(db), newSaleSvc(db), db)
}

func TestScanUnknownBarcode(t *testing.T) {
	db := setupTestDB(t)
	svc := newPDVSvc(db)

	if _, err := svc.Scan(uuid.New(), "0000000000000"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}

	// A failed scan must not open a session
	var count int64
	db.Model(&model.PDVSession{}).Count(&count)
	if count != 0 {
		t.Errorf("session count = %d, want 0", count)
	}
}

func TestScanOpensSessionAndSale(t *testing.T) {
	db := setupTestDB(t)
	svc := newPDVSvc(db)
	seedProduct(t, db, "Soda", 10, 5, "7891234500017")
	operator := uuid.New()

	result, err := svc.Scan(operator, "7891234500017")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if result.Product != "Soda" {
		t.Errorf("product = %q, want Soda", result.Product)
	}
	if result.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", result.Quantity)
	}
	if !result.Total.Equal(decimal.NewFromInt(10)) {
		t.Errorf("total = %s, want 10", result.Total)
	}

	sale, err := svc.CurrentSale(operator)
	if err != nil {
		t.Fatalf("CurrentSale: %v", err)
	}
	if sale.ID != result.SaleID {
		t.Errorf("current sale = %s, want %s", sale.ID, result.SaleID)
	}
	if sale.PaymentMethod != model.PaymentOpen {
		t.Errorf("payment method = %s, want open", sale.PaymentMethod)
	}
}

func TestRescanIncrementsSameLine(t *testing.T) {
	db := setupTestDB(t)
	svc := newPDVSvc(db)
	product := seedProduct(t, db, "Soda", 10, 5, "7891234500017")
	operator := uuid.New()

	first, err := svc.Scan(operator, "7891234500017")
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	second, err := svc.Scan(operator, "7891234500017")
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}

	if second.SaleID != first.SaleID {
		t.Errorf("second scan opened a new sale: %s vs %s", second.SaleID, first.SaleID)
	}
	if second.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", second.Quantity)
	}
	if !second.Subtotal.Equal(decimal.NewFromInt(20)) {
		t.Errorf("subtotal = %s, want 20", second.Subtotal)
	}
	if got := reloadProduct(t, db, product.ID).Stock; got != 3 {
		t.Errorf("stock = %d, want 3", got)
	}
}

func TestScanStopsAtZeroStock(t *testing.T) {
	db := setupTestDB(t)
	svc := newPDVSvc(db)
	product := seedProduct(t, db, "Gum", 2, 1, "7891234500024")
	operator := uuid.New()

	if _, err := svc.Scan(operator, "7891234500024"); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if _, err := svc.Scan(operator, "7891234500024"); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := reloadProduct(t, db, product.ID).Stock; got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestOperatorsGetSeparateSales(t *testing.T) {
	db := setupTestDB(t)
	svc := newPDVSvc(db)
	seedProduct(t, db, "Soda", 10, 10, "7891234500017")

	alice, err := svc.Scan(uuid.New(), "7891234500017")
	if err != nil {
		t.Fatalf("Scan alice: %v", err)
	}
	bob, err := svc.Scan(uuid.New(), "7891234500017")
	if err != nil {
		t.Fatalf("Scan bob: %v", err)
	}
	if alice.SaleID == bob.SaleID {
		t.Error("operators must not share a sale")
	}
}

func TestFinishSessionStartsFreshTicket(t *testing.T) {
	db := setupTestDB(t)
	svc := newPDVSvc(db)
	seedProduct(t, db, "Soda", 10, 10, "7891234500017")
	operator := uuid.New()

	first, err := svc.Scan(operator, "7891234500017")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if err := svc.FinishSession(operator); err != nil {
		t.Fatalf("FinishSession: %v", err)
	}

	if _, err := svc.CurrentSale(operator); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("CurrentSale after finish = %v, want ErrNoActiveSession", err)
	}
	if err := svc.FinishSession(operator); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("second FinishSession = %v, want ErrNoActiveSession", err)
	}

	next, err := svc.Scan(operator, "7891234500017")
	if err != nil {
		t.Fatalf("Scan after finish: %v", err)
	}
	if next.SaleID == first.SaleID {
		t.Error("scan after finish should open a new sale")
	}
}

func TestOneActiveSessionPerOperatorEnforced(t *testing.T) {
	db := setupTestDB(t)
	operator := uuid.New()

	first := &model.PDVSession{UserID: operator, SaleID: uuid.New(), Active: true}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("first session: %v", err)
	}

	// A second active session for the same operator must hit the
	// partial unique index, whatever code path races into it
	second := &model.PDVSession{UserID: operator, SaleID: uuid.New(), Active: true}
	if err := db.Create(second).Error; err == nil {
		t.Fatal("second active session was accepted")
	}

	// Inactive rows don't count against the index
	if err := db.Model(first).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	third := &model.PDVSession{UserID: operator, SaleID: uuid.New(), Active: true}
	if err := db.Create(third).Error; err != nil {
		t.Fatalf("session after deactivation: %v", err)
	}
}

func TestDeletingSaleKillsScannerSession(t *testing.T) {
	db := setupTestDB(t)
	pdvSvc := newPDVSvc(db)
	saleSvc := newSaleSvc(db)
	seedProduct(t, db, "Soda", 10, 10, "7891234500017")
	operator := uuid.New()

	result, err := pdvSvc.Scan(operator, "7891234500017")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if err := saleSvc.DeleteSale(result.SaleID, "admin"); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}

	if _, err := pdvSvc.CurrentSale(operator); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("CurrentSale after delete = %v, want ErrNoActiveSession", err)
	}
}
