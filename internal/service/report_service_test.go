package service

import (
	"testing"
	"time"

	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newReportSvc(db *gorm.DB) ReportService {
	return NewReportService(repository.NewSaleRepo(db), repository.NewProductRepo(db))
}

func TestDashboardAggregates(t *testing.T) {
	db := setupTestDB(t)
	saleSvc := newSaleSvc(db)
	reportSvc := newReportSvc(db)

	soda := seedProduct(t, db, "Soda", 10, 20, "")
	beer := &model.Product{Name: "Beer", Price: decimal.NewFromInt(8), Stock: 20, Category: model.CategoryAlcoholicDrink}
	if err := db.Create(beer).Error; err != nil {
		t.Fatalf("seed beer: %v", err)
	}
	customer := seedCustomer(t, db, "Ana")

	cashSale := seedCashSale(t, db, customer.ID, 100)
	if _, err := saleSvc.AddItem(cashSale.ID, soda.ID, 3, "tester"); err != nil {
		t.Fatalf("AddItem soda: %v", err)
	}

	pixSale := &model.Sale{CustomerID: &customer.ID, PaymentMethod: model.PaymentPix}
	if err := db.Create(pixSale).Error; err != nil {
		t.Fatalf("seed pix sale: %v", err)
	}
	if _, err := saleSvc.AddItem(pixSale.ID, beer.ID, 2, "tester"); err != nil {
		t.Fatalf("AddItem beer: %v", err)
	}

	report, err := reportSvc.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if len(report.UnitsPerDay) != 5 {
		t.Fatalf("units per day length = %d, want 5", len(report.UnitsPerDay))
	}
	if report.UnitsPerDay[0].Units != 5 {
		t.Errorf("units today = %d, want 5", report.UnitsPerDay[0].Units)
	}
	for i := 1; i < 5; i++ {
		if report.UnitsPerDay[i].Units != 0 {
			t.Errorf("units day -%d = %d, want 0", i, report.UnitsPerDay[i].Units)
		}
	}

	// 3x10 cash + 2x8 pix
	if !report.RevenueToday.Equal(decimal.NewFromInt(46)) {
		t.Errorf("revenue today = %s, want 46", report.RevenueToday)
	}
	if got := report.ByPaymentMethod[model.PaymentCash]; !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("cash revenue = %s, want 30", got)
	}
	if got := report.ByPaymentMethod[model.PaymentPix]; !got.Equal(decimal.NewFromInt(16)) {
		t.Errorf("pix revenue = %s, want 16", got)
	}
	if got := report.ByCategory[model.CategoryFood]; !got.Equal(decimal.NewFromInt(30)) {
		t.Errorf("food revenue = %s, want 30", got)
	}
	if got := report.ByCategory[model.CategoryAlcoholicDrink]; !got.Equal(decimal.NewFromInt(16)) {
		t.Errorf("alcoholic drink revenue = %s, want 16", got)
	}
	if len(report.Products) != 2 {
		t.Errorf("product count = %d, want 2", len(report.Products))
	}
}

func TestDashboardExcludesDeletedSales(t *testing.T) {
	db := setupTestDB(t)
	saleSvc := newSaleSvc(db)
	reportSvc := newReportSvc(db)

	soda := seedProduct(t, db, "Soda", 10, 20, "")
	customer := seedCustomer(t, db, "Ana")
	sale := seedCashSale(t, db, customer.ID, 100)
	if _, err := saleSvc.AddItem(sale.ID, soda.ID, 3, "tester"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := saleSvc.DeleteSale(sale.ID, "tester"); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}

	report, err := reportSvc.Dashboard()
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if !report.RevenueToday.IsZero() {
		t.Errorf("revenue today = %s, want 0 after delete", report.RevenueToday)
	}
	if report.UnitsPerDay[0].Units != 0 {
		t.Errorf("units today = %d, want 0 after delete", report.UnitsPerDay[0].Units)
	}
}

func TestSalesByDate(t *testing.T) {
	db := setupTestDB(t)
	saleSvc := newSaleSvc(db)
	reportSvc := newReportSvc(db)

	soda := seedProduct(t, db, "Soda", 10, 20, "")
	customer := seedCustomer(t, db, "Ana")

	// Settled cash sale
	paidSale := seedCashSale(t, db, customer.ID, 50)
	if _, err := saleSvc.AddItem(paidSale.ID, soda.ID, 2, "tester"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Underpaid cash sale leaves an outstanding balance
	owingSale := seedCashSale(t, db, customer.ID, 10)
	if _, err := saleSvc.AddItem(owingSale.ID, soda.ID, 3, "tester"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Yesterday's sale must not show up
	yesterday := &model.Sale{CustomerID: &customer.ID, PaymentMethod: model.PaymentPix, SoldAt: time.Now().AddDate(0, 0, -1)}
	if err := db.Create(yesterday).Error; err != nil {
		t.Fatalf("seed yesterday: %v", err)
	}

	report, err := reportSvc.SalesByDate(time.Now())
	if err != nil {
		t.Fatalf("SalesByDate: %v", err)
	}

	if len(report.Sales) != 2 {
		t.Fatalf("sale count = %d, want 2", len(report.Sales))
	}
	if !report.Revenue.Equal(decimal.NewFromInt(50)) {
		t.Errorf("revenue = %s, want 50", report.Revenue)
	}
	if report.SettledCount != 1 {
		t.Errorf("settled = %d, want 1", report.SettledCount)
	}
	if report.UnsettledCount != 1 {
		t.Errorf("unsettled = %d, want 1", report.UnsettledCount)
	}
	if !report.TotalOutstanding.Equal(decimal.NewFromInt(20)) {
		t.Errorf("outstanding = %s, want 20", report.TotalOutstanding)
	}
}
