package xlsexport

import (
	"testing"

	budgetapimodels "budget-portal-backend/models/api/budget"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportBudgetEntries(t *testing.T) {
	list := []budgetapimodels.BudgetEntryView{
		{
			Province:     "Jawa Barat",
			Municipality: "Kota Bandung",
			Program:      "Pendidikan Dasar",
			BudgetType:   "Belanja Operasional",
			Year:         2026,
			Allocated:    1000000,
			Realized:     250000,
			Remaining:    750000,
			RealizedPct:  25,
			StatusName:   "Approved",
		},
		{
			Province:     "Jawa Timur",
			Municipality: "Kabupaten Malang",
			Program:      "Kesehatan Masyarakat",
			BudgetType:   "Belanja Modal",
			Year:         2026,
			Allocated:    500000,
			Realized:     500000,
			Remaining:    0,
			RealizedPct:  100,
			StatusName:   "Completed",
		},
	}

	buf, err := impl{}.ExportBudgetEntries(list)
	require.Nil(t, err)
	require.NotNil(t, buf)

	f, err := excelize.OpenReader(buf)
	require.Nil(t, err)
	defer f.Close()

	rows, err := f.GetRows("Budget")
	require.Nil(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, budgetHeaders, rows[0])
	require.Equal(t, "Jawa Barat", rows[1][0])
	require.Equal(t, "Kota Bandung", rows[1][1])
	require.Equal(t, "25.00", rows[1][8])
	require.Equal(t, "Completed", rows[2][9])
}

func TestExportEmptyList(t *testing.T) {
	buf, err := impl{}.ExportBudgetEntries(nil)
	require.Nil(t, err)

	f, err := excelize.OpenReader(buf)
	require.Nil(t, err)
	defer f.Close()

	rows, err := f.GetRows("Budget")
	require.Nil(t, err)
	require.Len(t, rows, 1)
}
