package dbmodels

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBudgetEntryRecalc(t *testing.T) {
	t.Run(`remaining and percentage`, func(t *testing.T) {
		entry := BudgetEntry{Allocated: 1000, Realized: 250}
		entry.Recalc()
		require.Equal(t, float64(750), entry.Remaining)
		require.Equal(t, float64(25), entry.RealizedPct)
	})

	t.Run(`zero allocation`, func(t *testing.T) {
		entry := BudgetEntry{Allocated: 0, Realized: 0}
		entry.Recalc()
		require.Equal(t, float64(0), entry.Remaining)
		require.Equal(t, float64(0), entry.RealizedPct)
	})

	t.Run(`overspend goes negative`, func(t *testing.T) {
		entry := BudgetEntry{Allocated: 100, Realized: 150}
		entry.Recalc()
		require.Equal(t, float64(-50), entry.Remaining)
		require.Equal(t, float64(150), entry.RealizedPct)
	})
}
