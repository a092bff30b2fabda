package pdfexport

import (
	"bytes"
	"fmt"

	budgetapimodels "budget-portal-backend/models/api/budget"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

// GenerateBudgetReport renders the portal summary and the filtered entry
// list as a landscape A4 report
func GenerateBudgetReport(summary budgetapimodels.PortalSummary, list []budgetapimodels.BudgetEntryView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateBudgetReport panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Regional Budget Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(4)
	pdf.CellFormat(0, 6, fmt.Sprintf("Provinces: %d, municipalities: %d, budget entries: %d",
		summary.TotalProvinces, summary.TotalMunicipalities, summary.TotalEntries), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total allocated: %.2f, total realized: %.2f",
		summary.TotalAllocated, summary.TotalRealized), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Municipality", "Program", "Type", "Year", "Allocated", "Realized", "%", "Status"}
	widths := []float64{50, 70, 40, 15, 30, 30, 15, 25}

	pdf.SetFont("Helvetica", "B", 9)
	for k, header := range headers {
		pdf.CellFormat(widths[k], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range list {
		cells := []string{
			item.Municipality,
			item.Program,
			item.BudgetType,
			fmt.Sprintf("%d", item.Year),
			fmt.Sprintf("%.2f", item.Allocated),
			fmt.Sprintf("%.2f", item.Realized),
			fmt.Sprintf("%.1f", item.RealizedPct),
			item.StatusName,
		}
		for k, cell := range cells {
			pdf.CellFormat(widths[k], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, errors.Wrap(err, "failed to render pdf report")
	}
	return buf.Bytes(), nil
}
