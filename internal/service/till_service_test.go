package service

import (
	"errors"
	"testing"

	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTillSvc(db *gorm.DB) TillService {
	return NewTillService(repository.NewTillRepo(db), repository.NewSaleRepo(db), nil)
}

func TestTillOpenCloseLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newTillSvc(db)

	session, err := svc.Open(&OpenTillRequest{OpeningFloat: decimal.NewFromInt(100)}, "admin")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !session.IsOpen() {
		t.Fatal("session should be open")
	}

	current, err := svc.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current.ID != session.ID {
		t.Errorf("Current = %s, want %s", current.ID, session.ID)
	}

	closed, err := svc.Close(session.ID, &CloseTillRequest{ClosingAmount: decimal.NewFromInt(90)}, "admin")
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.IsOpen() {
		t.Error("session should be closed")
	}
	if closed.ClosingAmount == nil || !closed.ClosingAmount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("closing amount = %v, want 90", closed.ClosingAmount)
	}

	if _, err := svc.Current(); !errors.Is(err, ErrTillNotFound) {
		t.Errorf("Current after close = %v, want ErrTillNotFound", err)
	}
}

func TestTillSecondOpenRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newTillSvc(db)

	if _, err := svc.Open(&OpenTillRequest{OpeningFloat: decimal.NewFromInt(50)}, "admin"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := svc.Open(&OpenTillRequest{OpeningFloat: decimal.NewFromInt(50)}, "admin"); !errors.Is(err, ErrTillAlreadyOpen) {
		t.Fatalf("second Open = %v, want ErrTillAlreadyOpen", err)
	}
}

func TestTillCloseIsIrreversible(t *testing.T) {
	db := setupTestDB(t)
	svc := newTillSvc(db)

	session, err := svc.Open(&OpenTillRequest{OpeningFloat: decimal.NewFromInt(50)}, "admin")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := svc.Close(session.ID, &CloseTillRequest{ClosingAmount: decimal.NewFromInt(40)}, "admin"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := svc.Close(session.ID, &CloseTillRequest{ClosingAmount: decimal.NewFromInt(10)}, "admin"); !errors.Is(err, ErrTillClosed) {
		t.Fatalf("second Close = %v, want ErrTillClosed", err)
	}
}

func TestTillOpenRejectsNegativeFloat(t *testing.T) {
	db := setupTestDB(t)
	svc := newTillSvc(db)

	if _, err := svc.Open(&OpenTillRequest{OpeningFloat: decimal.NewFromInt(-1)}, "admin"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("err = %v, want ErrNegativeAmount", err)
	}
}

func TestTillOutflowRules(t *testing.T) {
	db := setupTestDB(t)
	svc := newTillSvc(db)

	session, err := svc.Open(&OpenTillRequest{OpeningFloat: decimal.NewFromInt(100)}, "admin")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := svc.AddOutflow(session.ID, &OutflowRequest{Description: "ice", Amount: decimal.NewFromInt(-5)}, "admin"); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("negative outflow = %v, want ErrNegativeAmount", err)
	}
	if _, err := svc.AddOutflow(session.ID, &OutflowRequest{Amount: decimal.NewFromInt(5)}, "admin"); err == nil {
		t.Error("outflow without description should fail validation")
	}

	outflow, err := svc.AddOutflow(session.ID, &OutflowRequest{Description: "ice", Amount: decimal.NewFromInt(5)}, "admin")
	if err != nil {
		t.Fatalf("AddOutflow: %v", err)
	}
	if outflow.TillSessionID != session.ID {
		t.Errorf("outflow session = %s, want %s", outflow.TillSessionID, session.ID)
	}

	if _, err := svc.Close(session.ID, &CloseTillRequest{ClosingAmount: decimal.NewFromInt(95)}, "admin"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := svc.AddOutflow(session.ID, &OutflowRequest{Description: "late", Amount: decimal.NewFromInt(1)}, "admin"); !errors.Is(err, ErrTillClosed) {
		t.Errorf("outflow on closed till = %v, want ErrTillClosed", err)
	}
}

func TestTillSummaryMath(t *testing.T) {
	db := setupTestDB(t)
	tillSvc := newTillSvc(db)
	saleSvc := newSaleSvc(db)

	session, err := tillSvc.Open(&OpenTillRequest{OpeningFloat: decimal.NewFromInt(100)}, "admin")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	product := seedProduct(t, db, "Soda", 10, 20, "")
	customer := seedCustomer(t, db, "Ana")

	// Cash sale paid 30 while the till is open
	cashSale := seedCashSale(t, db, customer.ID, 30)
	if _, err := saleSvc.AddItem(cashSale.ID, product.ID, 3, "admin"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Non-cash take recorded directly so it counts toward total but not cash
	paid := decimal.NewFromInt(20)
	creditSale := &model.Sale{CustomerID: &customer.ID, PaymentMethod: model.PaymentCredit, AmountPaid: &paid}
	if err := db.Create(creditSale).Error; err != nil {
		t.Fatalf("seed credit sale: %v", err)
	}

	if _, err := tillSvc.AddOutflow(session.ID, &OutflowRequest{Description: "change run", Amount: decimal.NewFromInt(5)}, "admin"); err != nil {
		t.Fatalf("AddOutflow: %v", err)
	}

	summary, err := tillSvc.Summary(session.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !summary.TotalSales.Equal(decimal.NewFromInt(50)) {
		t.Errorf("total sales = %s, want 50", summary.TotalSales)
	}
	if !summary.CashSales.Equal(decimal.NewFromInt(30)) {
		t.Errorf("cash sales = %s, want 30", summary.CashSales)
	}
	if !summary.TotalOutflow.Equal(decimal.NewFromInt(5)) {
		t.Errorf("outflow = %s, want 5", summary.TotalOutflow)
	}
	// 100 float + 30 cash - 5 outflow
	if !summary.ExpectedCash.Equal(decimal.NewFromInt(125)) {
		t.Errorf("expected cash = %s, want 125", summary.ExpectedCash)
	}
}
