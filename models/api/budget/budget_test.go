package budgetapimodels

import (
	"testing"

	"budget-portal-backend/models"

	"github.com/stretchr/testify/require"
)

func validEntryData() BudgetEntryData {
	return BudgetEntryData{
		MunicipalityID: "m-1",
		ProgramID:      "p-1",
		BudgetTypeID:   "t-1",
		Year:           2026,
		Allocated:      1000,
		Realized:       400,
		Status:         string(models.BudgetStatusApproved),
		StartDate:      "2026-01-01",
		EndDate:        "2026-12-31",
	}
}

func TestBudgetEntryData(t *testing.T) {
	t.Run(`valid payload`, func(t *testing.T) {
		require.Nil(t, validEntryData().Validate())
	})

	t.Run(`missing references`, func(t *testing.T) {
		data := validEntryData()
		data.MunicipalityID = ""
		require.NotNil(t, data.Validate())

		data = validEntryData()
		data.ProgramID = ""
		require.NotNil(t, data.Validate())

		data = validEntryData()
		data.BudgetTypeID = ""
		require.NotNil(t, data.Validate())
	})

	t.Run(`year out of range`, func(t *testing.T) {
		data := validEntryData()
		data.Year = 1999
		require.NotNil(t, data.Validate())
	})

	t.Run(`unknown status`, func(t *testing.T) {
		data := validEntryData()
		data.Status = "DIBATALKAN"
		require.NotNil(t, data.Validate())
	})

	t.Run(`bad date format`, func(t *testing.T) {
		data := validEntryData()
		data.StartDate = "01.01.2026"
		require.NotNil(t, data.Validate())
	})

	t.Run(`record gets derived fields`, func(t *testing.T) {
		rec := validEntryData().ToRecord()
		require.Equal(t, float64(600), rec.Remaining)
		require.Equal(t, float64(40), rec.RealizedPct)
		require.Equal(t, models.BudgetStatusApproved, rec.Status)
	})

	t.Run(`empty status defaults to planned`, func(t *testing.T) {
		data := validEntryData()
		data.Status = ""
		rec := data.ToRecord()
		require.Equal(t, models.BudgetStatusPlanned, rec.Status)
	})
}
