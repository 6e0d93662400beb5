package service

import (
	"time"

	"go-minimarket-pos/internal/model"
	"go-minimarket-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService exposes the read-only projections behind the dashboard
// and the per-date sales report. No core invariants live here.
type ReportService interface {
	Dashboard() (*DashboardReport, error)
	SalesByDate(date time.Time) (*DayReport, error)
}

type DailyUnits struct {
	Date  string `json:"date"`
	Units int    `json:"units"`
}

type DashboardReport struct {
	UnitsPerDay     []DailyUnits                            `json:"units_per_day"`
	RevenueToday    decimal.Decimal                         `json:"revenue_today"`
	ByPaymentMethod map[model.PaymentMethod]decimal.Decimal `json:"by_payment_method"`
	ByCategory      map[model.Category]decimal.Decimal      `json:"by_category"`
	Products        []model.Product                         `json:"products"`
}

type DayReport struct {
	Date             string          `json:"date"`
	Sales            []model.Sale    `json:"sales"`
	Revenue          decimal.Decimal `json:"revenue"`
	SettledCount     int             `json:"settled_count"`
	UnsettledCount   int             `json:"unsettled_count"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

type reportService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

func NewReportService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) ReportService {
	return &reportService{saleRepo: saleRepo, productRepo: productRepo}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *reportService) Dashboard() (*DashboardReport, error) {
	today := startOfDay(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	// Units sold per day, today first, going back 5 days
	var perDay []DailyUnits
	for i := 0; i < 5; i++ {
		dayStart := today.AddDate(0, 0, -i)
		units, err := s.saleRepo.UnitsSoldBetween(dayStart, dayStart.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		perDay = append(perDay, DailyUnits{Date: dayStart.Format("2006-01-02"), Units: units})
	}

	revenue, err := s.saleRepo.RevenueBetween(today, tomorrow)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.saleRepo.RevenueByPaymentMethod(today, tomorrow)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.saleRepo.RevenueByCategory(today, tomorrow)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	return &DashboardReport{
		UnitsPerDay:     perDay,
		RevenueToday:    revenue,
		ByPaymentMethod: byMethod,
		ByCategory:      byCategory,
		Products:        products,
	}, nil
}

func (s *reportService) SalesByDate(date time.Time) (*DayReport, error) {
	dayStart := startOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	sales, err := s.saleRepo.FindBetween(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	revenue, err := s.saleRepo.RevenueBetween(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	report := &DayReport{
		Date:             dayStart.Format("2006-01-02"),
		Sales:            sales,
		Revenue:          revenue,
		TotalOutstanding: decimal.Zero,
	}
	for _, sale := range sales {
		if sale.Paid {
			report.SettledCount++
		} else {
			report.UnsettledCount++
			report.TotalOutstanding = report.TotalOutstanding.Add(sale.Outstanding)
		}
	}
	return report, nil
}
