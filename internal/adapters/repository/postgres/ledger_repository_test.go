package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDividendLedger_SummarizeDividends(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	ledger := NewDividendLedger(mock)

	mock.ExpectQuery(`FROM dividends`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "total"}).AddRow(int64(2), "2000.50"))

	summary, err := ledger.SummarizeDividends(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Count)
	assert.True(t, decimal.RequireFromString("2000.5").Equal(summary.Total))
}

func TestSalaryLedger_SummarizeSalaries_Empty(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	ledger := NewSalaryLedger(mock)

	mock.ExpectQuery(`FROM salaries`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "total"}).AddRow(int64(0), "0"))

	summary, err := ledger.SummarizeSalaries(context.Background(), 7)
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
	assert.True(t, summary.Total.IsZero())
}

func TestSalaryLedger_SummarizeSalaries_BadTotal(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	ledger := NewSalaryLedger(mock)

	mock.ExpectQuery(`FROM salaries`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "total"}).AddRow(int64(1), "NaN?"))

	_, err := ledger.SummarizeSalaries(context.Background(), 7)
	require.Error(t, err)
}
