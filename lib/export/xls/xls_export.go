package xlsexport

import (
	"bytes"
	"fmt"

	budgetapimodels "budget-portal-backend/models/api/budget"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportBudgetEntries(list []budgetapimodels.BudgetEntryView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var budgetHeaders = []string{"Province", "Municipality", "Program", "Budget type", "Year", "Allocated", "Realized", "Remaining", "Realized %", "Status"}

func (i impl) ExportBudgetEntries(list []budgetapimodels.BudgetEntryView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("failed to close xlsx file")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, budgetHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "failed to write xlsx header")
	}
	if len(list) != 0 {
		_, err = writeBudgetData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "failed to write xlsx data")
		}
	}
	f.SetSheetName(sheet, "Budget")
	return f.WriteToBuffer()
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return row, err
	}
	for col, header := range headers {
		if err := writeColumn(f, sheet, col+1, row, header); err != nil {
			return row, err
		}
	}
	firstCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	lastCell, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return row, err
	}
	if err := f.SetCellStyle(sheet, firstCell, lastCell, style); err != nil {
		return row, err
	}
	return row, nil
}

func writeBudgetData(f *excelize.File, sheet string, list []budgetapimodels.BudgetEntryView, row int) (int, error) {
	for _, item := range list {
		row++
		values := []interface{}{
			item.Province,
			item.Municipality,
			item.Program,
			item.BudgetType,
			item.Year,
			item.Allocated,
			item.Realized,
			item.Remaining,
			fmt.Sprintf("%.2f", item.RealizedPct),
			item.StatusName,
		}
		for col, value := range values {
			if err := writeColumn(f, sheet, col+1, row, value); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

func writeColumn(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
