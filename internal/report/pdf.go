// Package report renders the sales report as a PDF document.
package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"go-stockbit/internal/service"
)

// Core PDF fonts have no naira sign.
const currency = "NGN "

func money(d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}

// WritePDF renders r for the named business into w.
func WritePDF(w io.Writer, business string, r *service.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(business+" sales report", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, business+" - Sales Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Generated "+r.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	line := func(label, value string) {
		pdf.CellFormat(70, 8, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	line("Total products", fmt.Sprintf("%d", r.TotalProducts))
	line("Low stock items", fmt.Sprintf("%d", r.LowStockCount))
	line("Inventory value", money(r.InventoryValue))
	line("Total revenue", money(r.TotalRevenue))

	if r.Premium {
		if r.ProfitMargin != nil {
			line("Profit margin", r.ProfitMargin.StringFixed(1)+"%")
		}
		if r.StockTurnover != nil {
			line("Stock turnover", r.StockTurnover.StringFixed(1))
		}
		if r.BestSellingCategory != nil {
			line("Best seller", *r.BestSellingCategory)
		}
	} else {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 8, "Upgrade to premium for margin, turnover and best seller figures.", "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, "Top products", "", 1, "L", false, 0, "")
	pdf.CellFormat(90, 10, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 10, "Quantity sold", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 10, "Revenue", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	if len(r.TopProducts) == 0 {
		pdf.CellFormat(180, 10, "No sales yet", "1", 1, "C", false, 0, "")
	}
	for _, p := range r.TopProducts {
		pdf.CellFormat(90, 10, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, fmt.Sprintf("%d", p.QuantitySold), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 10, money(p.Revenue), "1", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report.WritePDF: %w", err)
	}
	return nil
}
