package infra

// pdf.go — inventory report generation using go-pdf/fpdf.
// Produces an A4 table of the current stock: name, category, price, quantity,
// line value, plus a bold total inventory value and a low-stock section.

import (
	"fmt"
	"io"
	"time"

	"github.com/ThatoMphasane/thato/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// WriteInventoryReport renders the current product list as a PDF into w.
// threshold marks which products appear in the low-stock section.
func WriteInventoryReport(w io.Writer, products []model.Product, threshold int) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Wings Cafe Inventory Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, time.Now().Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table ────────────────────────────────────────────────────────────────
	colName := contentW * 0.32
	colCat := contentW * 0.20
	colPrice := contentW * 0.14
	colQty := contentW * 0.12
	colValue := contentW * 0.22

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colName, 6, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCat, 6, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colPrice, 6, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colQty, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colValue, 6, "Value", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	total := decimal.Zero
	for _, p := range products {
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		total = total.Add(value)
		pdf.CellFormat(colName, 6, p.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colCat, 6, p.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(colPrice, 6, p.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", p.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(colValue, 6, value.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 7, "Total inventory value: "+total.StringFixed(2), "T", 1, "R", false, 0, "")

	// ── Low stock ────────────────────────────────────────────────────────────
	var low []model.Product
	for _, p := range products {
		if p.Quantity < threshold {
			low = append(low, p)
		}
	}
	if len(low) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(contentW, 7, fmt.Sprintf("Low stock (below %d)", threshold), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, p := range low {
			pdf.CellFormat(contentW, 6, fmt.Sprintf("%s: %d left", p.Name, p.Quantity), "", 1, "L", false, 0, "")
		}
	}

	return pdf.Output(w)
}
