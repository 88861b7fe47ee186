package employee

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ResourceKind は削除を妨げる記録の種類です。
type ResourceKind string

const (
	ResourceDividendHistory    ResourceKind = "dividend_history"
	ResourceSalaryHistory      ResourceKind = "salary_history"
	ResourceActiveShareholding ResourceKind = "active_shareholding"
)

// LedgerSummary は社員に紐づく台帳行の件数と合計額です。
type LedgerSummary struct {
	Count int
	Total decimal.Decimal
}

// DividendLedger は HR ストアの配当履歴です。
type DividendLedger interface {
	SummarizeDividends(ctx context.Context, employeeID int64) (LedgerSummary, error)
}

// SalaryLedger は Payroll ストアの給与履歴です。
type SalaryLedger interface {
	SummarizeSalaries(ctx context.Context, employeeID int64) (LedgerSummary, error)
}

// ShareholdingLedger は Identity ストアの持株記録です。
type ShareholdingLedger interface {
	// ActiveShares は株数が正の持株記録の件数と株数の合計を返します。
	ActiveShares(ctx context.Context, employeeID int64) (count int, shares int64, err error)
}

// Blocker は削除を妨げる記録の要約です。
type Blocker struct {
	Kind   ResourceKind
	Count  int
	Amount decimal.Decimal
	Shares int64
}

// Blockers は Blocker の一覧です。
type Blockers []Blocker

// Kinds は種類だけを順に返します。
func (b Blockers) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(b))
	for _, blocker := range b {
		kinds = append(kinds, blocker.Kind)
	}
	return kinds
}

// DeletionCheck は削除可否の判定結果です。
type DeletionCheck struct {
	Allowed  bool
	Blockers Blockers
}

// GuardDependencies は Guard の依存関係です。
type GuardDependencies struct {
	Dividends     DividendLedger
	Salaries      SalaryLedger
	Shareholdings ShareholdingLedger
	HRTx          TransactionManager
	PayrollTx     TransactionManager
	IdentityTx    TransactionManager
}

// Guard は配当・給与・持株の記録が残る社員の削除を禁止します。
type Guard struct {
	dividends     DividendLedger
	salaries      SalaryLedger
	shareholdings ShareholdingLedger
	hrTx          TransactionManager
	payrollTx     TransactionManager
	identityTx    TransactionManager
}

// NewGuard は Guard を生成します。
func NewGuard(deps GuardDependencies) *Guard {
	g := &Guard{
		dividends:     deps.Dividends,
		salaries:      deps.Salaries,
		shareholdings: deps.Shareholdings,
		hrTx:          deps.HRTx,
		payrollTx:     deps.PayrollTx,
		identityTx:    deps.IdentityTx,
	}
	if g.hrTx == nil {
		g.hrTx = noopTransactionManager{}
	}
	if g.payrollTx == nil {
		g.payrollTx = noopTransactionManager{}
	}
	if g.identityTx == nil {
		g.identityTx = noopTransactionManager{}
	}
	return g
}

// Check は配当 (HR)、給与 (Payroll)、持株 (Identity) の順に台帳を確認します。
// 書き込みは一切行いません。
func (g *Guard) Check(ctx context.Context, employeeID int64) (*DeletionCheck, error) {
	if employeeID <= 0 {
		return nil, ErrInvalidID
	}

	var blockers Blockers

	var dividends LedgerSummary
	if err := g.hrTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		summary, err := g.dividends.SummarizeDividends(txCtx, employeeID)
		if err != nil {
			return err
		}
		dividends = summary
		return nil
	}); err != nil {
		return nil, fmt.Errorf("employee: check dividends: %w", err)
	}
	if dividends.Count > 0 {
		blockers = append(blockers, Blocker{Kind: ResourceDividendHistory, Count: dividends.Count, Amount: dividends.Total})
	}

	var salaries LedgerSummary
	if err := g.payrollTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		summary, err := g.salaries.SummarizeSalaries(txCtx, employeeID)
		if err != nil {
			return err
		}
		salaries = summary
		return nil
	}); err != nil {
		return nil, fmt.Errorf("employee: check salaries: %w", err)
	}
	if salaries.Count > 0 {
		blockers = append(blockers, Blocker{Kind: ResourceSalaryHistory, Count: salaries.Count, Amount: salaries.Total})
	}

	var (
		holdings int
		shares   int64
	)
	if err := g.identityTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		count, total, err := g.shareholdings.ActiveShares(txCtx, employeeID)
		if err != nil {
			return err
		}
		holdings, shares = count, total
		return nil
	}); err != nil {
		return nil, fmt.Errorf("employee: check shareholdings: %w", err)
	}
	if holdings > 0 {
		blockers = append(blockers, Blocker{Kind: ResourceActiveShareholding, Count: holdings, Shares: shares})
	}

	return &DeletionCheck{Allowed: len(blockers) == 0, Blockers: blockers}, nil
}
