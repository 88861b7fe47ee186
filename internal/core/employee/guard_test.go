package employee

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSalaries struct{}

func (failingSalaries) SummarizeSalaries(context.Context, int64) (LedgerSummary, error) {
	return LedgerSummary{}, errStoreDown
}

type recordingTx struct {
	name  string
	calls *[]string
}

func (r recordingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	*r.calls = append(*r.calls, r.name+":ro")
	return fn(ctx)
}

func (r recordingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	*r.calls = append(*r.calls, r.name+":rw")
	return fn(ctx)
}

func TestGuard_Check_ReportsEveryBlocker(t *testing.T) {
	t.Parallel()

	hr, payroll, identity := newFakeHR(), newFakePayroll(), newFakeIdentity()
	hr.dividends[7] = []decimal.Decimal{decimal.RequireFromString("1200.50"), decimal.RequireFromString("800")}
	payroll.salaries[7] = []decimal.Decimal{decimal.RequireFromString("310000")}
	identity.shareholdings[7] = []int64{100, 0, 25}

	var calls []string
	guard := NewGuard(GuardDependencies{
		Dividends:     hr,
		Salaries:      payroll,
		Shareholdings: identity,
		HRTx:          recordingTx{name: "hr", calls: &calls},
		PayrollTx:     recordingTx{name: "payroll", calls: &calls},
		IdentityTx:    recordingTx{name: "identity", calls: &calls},
	})

	check, err := guard.Check(context.Background(), 7)
	require.NoError(t, err)

	assert.False(t, check.Allowed)
	assert.Equal(t, []ResourceKind{ResourceDividendHistory, ResourceSalaryHistory, ResourceActiveShareholding}, check.Blockers.Kinds())
	assert.Equal(t, 2, check.Blockers[0].Count)
	assert.True(t, decimal.RequireFromString("2000.50").Equal(check.Blockers[0].Amount))
	assert.Equal(t, 2, check.Blockers[2].Count)
	assert.Equal(t, int64(125), check.Blockers[2].Shares)
	assert.Equal(t, []string{"hr:ro", "payroll:ro", "identity:ro"}, calls)

	blockedErr := &DeletionBlockedError{Blockers: check.Blockers}
	assert.Equal(t, "employee: deletion blocked by dividend_history, salary_history, active_shareholding", blockedErr.Error())
}

func TestGuard_Check_AllowsCleanEmployee(t *testing.T) {
	t.Parallel()

	identity := newFakeIdentity()
	identity.shareholdings[7] = []int64{0}
	guard := NewGuard(GuardDependencies{Dividends: newFakeHR(), Salaries: newFakePayroll(), Shareholdings: identity})

	check, err := guard.Check(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, check.Allowed)
	assert.Empty(t, check.Blockers)
}

func TestGuard_Check_Errors(t *testing.T) {
	t.Parallel()

	guard := NewGuard(GuardDependencies{Dividends: newFakeHR(), Salaries: failingSalaries{}, Shareholdings: newFakeIdentity()})

	_, err := guard.Check(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStoreDown))

	_, err = guard.Check(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidID)
}
