package sqlite

import (
	"context"

	sqlitedb "github.com/ogurasousui/hr-sync/internal/platform/db/sqlite"
)

// ShareholdingLedger は Identity ストアの持株記録を集計します。
type ShareholdingLedger struct {
	db sqlitedb.Execer
}

// NewShareholdingLedger は ShareholdingLedger を生成します。
func NewShareholdingLedger(db sqlitedb.Execer) *ShareholdingLedger {
	return &ShareholdingLedger{db: db}
}

// ActiveShares は株数が正の持株記録の件数と株数の合計を返します。
func (l *ShareholdingLedger) ActiveShares(ctx context.Context, employeeID int64) (int, int64, error) {
	exec := sqlitedb.ExecerFromContext(ctx, l.db)
	var (
		count int
		total int64
	)
	err := exec.QueryRowContext(ctx, `
        SELECT COUNT(*), COALESCE(SUM(shares), 0)
          FROM shareholdings
         WHERE employee_id = ? AND shares > 0
    `, employeeID).Scan(&count, &total)
	if err != nil {
		return 0, 0, err
	}
	return count, total, nil
}
