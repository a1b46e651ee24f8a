package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-stockbit/internal/model"
	"go-stockbit/internal/repository"
)

const (
	topProductsLimit = 5
	recentSalesLimit = 5
	noDataLabel      = "No data"
)

// Report is the per-user sales and stock summary. ProfitMargin,
// BestSellingCategory and StockTurnover are only filled for premium users
// and are null otherwise.
type Report struct {
	Premium             bool                    `json:"premium"`
	InventoryValue      decimal.Decimal         `json:"inventory_value"`
	TotalRevenue        decimal.Decimal         `json:"total_revenue"`
	TotalProducts       int64                   `json:"total_products"`
	LowStockCount       int64                   `json:"low_stock_count"`
	TopProducts         []repository.TopProduct `json:"top_products"`
	ProfitMargin        *decimal.Decimal        `json:"profit_margin"`
	BestSellingCategory *string                 `json:"best_selling_category"`
	StockTurnover       *decimal.Decimal        `json:"stock_turnover"`
	GeneratedAt         time.Time               `json:"generated_at"`
}

type Dashboard struct {
	InventoryValue decimal.Decimal  `json:"inventory_value"`
	TotalProducts  int64            `json:"total_products"`
	LowStockCount  int64            `json:"low_stock_count"`
	LowStock       []model.Product  `json:"low_stock"`
	RecentSales    []model.SaleView `json:"recent_sales"`
}

type ReportService interface {
	Report(user *model.User) (*Report, error)
	Dashboard(userID uuid.UUID) (*Dashboard, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

func NewReportService(rRepo repository.ReportRepository, pRepo repository.ProductRepository, sRepo repository.SaleRepository) ReportService {
	return &reportService{
		reportRepo:  rRepo,
		productRepo: pRepo,
		saleRepo:    sRepo,
		now:         time.Now,
	}
}

func (s *reportService) Report(user *model.User) (*Report, error) {
	stock, err := s.reportRepo.InventoryStats(user.ID)
	if err != nil {
		return nil, err
	}
	totals, err := s.reportRepo.SalesTotals(user.ID)
	if err != nil {
		return nil, err
	}
	top, err := s.reportRepo.TopProducts(user.ID, topProductsLimit)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []repository.TopProduct{}
	}

	report := &Report{
		Premium:        user.IsPremium,
		InventoryValue: stock.InventoryValue.Round(2),
		TotalRevenue:   totals.Revenue.Round(2),
		TotalProducts:  stock.TotalProducts,
		LowStockCount:  stock.LowStockCount,
		TopProducts:    top,
		GeneratedAt:    s.now(),
	}

	if user.IsPremium {
		margin := profitMargin(totals.Revenue, stock.InventoryValue)
		turnover := stockTurnover(totals.Revenue, stock.InventoryValue)
		label := bestSelling(top)
		report.ProfitMargin = &margin
		report.StockTurnover = &turnover
		report.BestSellingCategory = &label
	}

	return report, nil
}

// profitMargin is revenue minus the cost of the stock on hand, as a
// percentage of revenue. Zero without revenue.
func profitMargin(revenue, cost decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return revenue.Sub(cost).Div(revenue).Mul(decimal.NewFromInt(100)).Round(1)
}

// stockTurnover is revenue over the average inventory, approximated as half
// the current inventory value.
func stockTurnover(revenue, inventoryValue decimal.Decimal) decimal.Decimal {
	average := inventoryValue.Div(decimal.NewFromInt(2))
	if average.IsZero() {
		return decimal.Zero
	}
	return revenue.Div(average).Round(1)
}

func bestSelling(top []repository.TopProduct) string {
	if len(top) == 0 {
		return noDataLabel
	}
	return top[0].Name
}

func (s *reportService) Dashboard(userID uuid.UUID) (*Dashboard, error) {
	stock, err := s.reportRepo.InventoryStats(userID)
	if err != nil {
		return nil, err
	}
	low, err := s.productRepo.FindLowStock(userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.saleRepo.FindByUser(userID, recentSalesLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		InventoryValue: stock.InventoryValue.Round(2),
		TotalProducts:  stock.TotalProducts,
		LowStockCount:  stock.LowStockCount,
		LowStock:       orEmpty(low),
		RecentSales:    orEmpty(recent),
	}, nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
