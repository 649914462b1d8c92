package infra

// pdf.go — Low-stock report generation using go-pdf/fpdf.
// Renders an A4 landscape table with one row per alert:
//   - SKU, product name, warehouse
//   - Current stock vs effective threshold
//   - Estimated days until stockout ("—" when demand is unknown)
//   - Preferred supplier and lead time
//
// The output file is saved to storagePath/low_stock_{companyID}_{timestamp}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"stockpilot/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateAlertReportPDF renders a low-stock report for one company.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerateAlertReportPDF(companyID string, alerts []dto.Alert, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("low_stock_%s_%s.pdf", companyID, time.Now().UTC().Format("20060102T150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20 // total margins = 20mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Low-Stock Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Generated %s", time.Now().UTC().Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%d product(s) at or below threshold", len(alerts)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Table header ──────────────────────────────────────────────────────────
	colSKU := contentW * 0.12
	colName := contentW * 0.24
	colWH := contentW * 0.16
	colStock := contentW * 0.08
	colThresh := contentW * 0.09
	colDays := contentW * 0.09
	colSupp := contentW * 0.22

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(colSKU, 6, "SKU", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colName, 6, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colWH, 6, "Warehouse", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colStock, 6, "Stock", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colThresh, 6, "Threshold", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colDays, 6, "Days Left", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colSupp, 6, "Suggested Supplier", "1", 1, "L", true, 0, "")

	// ── Rows ──────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, a := range alerts {
		name := a.ProductName
		if len(name) > 38 {
			name = name[:37] + "…"
		}

		days := "—"
		if a.DaysUntilStockout != nil {
			days = strconv.Itoa(*a.DaysUntilStockout)
		}

		supplier := "—"
		if a.Supplier != nil {
			supplier = fmt.Sprintf("%s (%d day lead)", a.Supplier.Name, a.Supplier.LeadTimeDays)
		}

		pdf.CellFormat(colSKU, 6, a.SKU, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colName, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWH, 6, a.WarehouseName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colStock, 6, strconv.Itoa(a.CurrentStock), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colThresh, 6, strconv.Itoa(a.Threshold), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colDays, 6, days, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colSupp, 6, supplier, "1", 1, "L", false, 0, "")
	}

	if len(alerts) == 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 6, "No products below threshold.", "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
