package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	pgdb "github.com/ogurasousui/hr-sync/internal/platform/db/postgres"
	"github.com/shopspring/decimal"
)

// DividendLedger は HR ストアの配当履歴を集計します。
type DividendLedger struct {
	pool pgdb.Queryer
}

// NewDividendLedger は DividendLedger を生成します。
func NewDividendLedger(pool pgdb.Queryer) *DividendLedger {
	return &DividendLedger{pool: pool}
}

// SummarizeDividends は社員の配当件数と合計額を返します。
func (l *DividendLedger) SummarizeDividends(ctx context.Context, employeeID int64) (employee.LedgerSummary, error) {
	exec := pgdb.QueryerFromContext(ctx, hrStore, l.pool)
	return summarizeLedger(exec.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(amount), 0)::text
          FROM dividends
         WHERE employee_id = $1
    `, employeeID))
}

// SalaryLedger は Payroll ストアの給与履歴を集計します。
type SalaryLedger struct {
	pool pgdb.Queryer
}

// NewSalaryLedger は SalaryLedger を生成します。
func NewSalaryLedger(pool pgdb.Queryer) *SalaryLedger {
	return &SalaryLedger{pool: pool}
}

// SummarizeSalaries は社員の給与件数と手取り合計額を返します。
func (l *SalaryLedger) SummarizeSalaries(ctx context.Context, employeeID int64) (employee.LedgerSummary, error) {
	exec := pgdb.QueryerFromContext(ctx, payrollStore, l.pool)
	return summarizeLedger(exec.QueryRow(ctx, `
        SELECT COUNT(*), COALESCE(SUM(net_salary), 0)::text
          FROM salaries
         WHERE employee_id = $1
    `, employeeID))
}

func summarizeLedger(row pgx.Row) (employee.LedgerSummary, error) {
	var (
		count int64
		total string
	)
	if err := row.Scan(&count, &total); err != nil {
		return employee.LedgerSummary{}, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return employee.LedgerSummary{}, fmt.Errorf("postgres: parse ledger total %q: %w", total, err)
	}
	return employee.LedgerSummary{Count: int(count), Total: amount}, nil
}
