package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportService_Report(t *testing.T) {
	db := newMemDB()
	alice := seedUser(db, "alice", false, false)
	rice := seedProduct(db, alice.ID, "Rice", 20, "100", "150")
	oil := seedProduct(db, alice.ID, "Oil", 10, "50", "80")
	sales := fakeSaleRepo{db}
	_, _, err := sales.Record(alice.ID, rice.ID, 4, time.Now())
	require.NoError(t, err)
	_, _, err = sales.Record(alice.ID, oil.ID, 2, time.Now())
	require.NoError(t, err)

	svc := NewReportService(fakeReportRepo{db}, fakeProductRepo{db}, sales)

	// Stock left at cost: rice 16*100 + oil 8*50 = 2000. Revenue: 4*150 + 2*80 = 760.
	t.Run("basic user gets null premium fields", func(t *testing.T) {
		report, err := svc.Report(alice)
		require.NoError(t, err)
		assert.False(t, report.Premium)
		assert.Equal(t, "2000", report.InventoryValue.String())
		assert.Equal(t, "760", report.TotalRevenue.String())
		assert.EqualValues(t, 2, report.TotalProducts)
		require.Len(t, report.TopProducts, 2)
		assert.Equal(t, "Rice", report.TopProducts[0].Name)
		assert.Nil(t, report.ProfitMargin)
		assert.Nil(t, report.BestSellingCategory)
		assert.Nil(t, report.StockTurnover)
	})

	t.Run("premium user gets the extra figures", func(t *testing.T) {
		premium := *alice
		premium.IsPremium = true
		report, err := svc.Report(&premium)
		require.NoError(t, err)
		assert.True(t, report.Premium)
		require.NotNil(t, report.ProfitMargin)
		// (760-2000)/760 = -163.16%
		assert.Equal(t, "-163.2", report.ProfitMargin.String())
		// 760 / (2000/2) = 0.76
		assert.Equal(t, "0.8", report.StockTurnover.String())
		assert.Equal(t, "Rice", *report.BestSellingCategory)
	})

	t.Run("premium user without data", func(t *testing.T) {
		carol := seedUser(db, "carol", false, true)
		report, err := svc.Report(carol)
		require.NoError(t, err)
		assert.NotNil(t, report.TopProducts)
		assert.Empty(t, report.TopProducts)
		assert.True(t, report.ProfitMargin.IsZero())
		assert.True(t, report.StockTurnover.IsZero())
		assert.Equal(t, "No data", *report.BestSellingCategory)
	})
}

func TestReportFormulas(t *testing.T) {
	d := decimal.RequireFromString
	assert.Equal(t, "25", profitMargin(d("100"), d("75")).String())
	assert.Equal(t, "-50", profitMargin(d("100"), d("150")).String())
	assert.True(t, profitMargin(decimal.Zero, d("10")).IsZero())

	assert.Equal(t, "2", stockTurnover(d("100"), d("100")).String())
	assert.True(t, stockTurnover(d("100"), decimal.Zero).IsZero())
}

func TestReportService_Dashboard(t *testing.T) {
	db := newMemDB()
	alice := seedUser(db, "alice", false, false)
	low := seedProduct(db, alice.ID, "Salt", 10, "10", "20")
	seedProduct(db, alice.ID, "Flour", 50, "10", "20")
	sales := fakeSaleRepo{db}
	for i := 0; i < 7; i++ {
		_, _, err := sales.Record(alice.ID, low.ID, 1, time.Now())
		require.NoError(t, err)
	}

	svc := NewReportService(fakeReportRepo{db}, fakeProductRepo{db}, sales)
	dash, err := svc.Dashboard(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, dash.TotalProducts)
	assert.EqualValues(t, 1, dash.LowStockCount)
	require.Len(t, dash.LowStock, 1)
	assert.Equal(t, "Salt", dash.LowStock[0].Name)
	assert.Len(t, dash.RecentSales, 5)

	empty, err := svc.Dashboard(seedUser(db, "bobby", false, false).ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.LowStock)
	assert.NotNil(t, empty.RecentSales)
	assert.True(t, empty.InventoryValue.IsZero())
}
