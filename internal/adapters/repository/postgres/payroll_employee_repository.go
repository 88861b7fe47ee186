package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	pgdb "github.com/ogurasousui/hr-sync/internal/platform/db/postgres"
)

// PayrollEmployeeRepository は Payroll ストアに複製された社員を永続化します。
type PayrollEmployeeRepository struct {
	pool pgdb.Queryer
}

// NewPayrollEmployeeRepository は PayrollEmployeeRepository を生成します。
func NewPayrollEmployeeRepository(pool pgdb.Queryer) *PayrollEmployeeRepository {
	return &PayrollEmployeeRepository{pool: pool}
}

// Create は HR と同じ ID で社員行を挿入します。
func (r *PayrollEmployeeRepository) Create(ctx context.Context, e *employee.PayrollEmployee) error {
	exec := pgdb.QueryerFromContext(ctx, payrollStore, r.pool)
	_, err := exec.Exec(ctx, `
        INSERT INTO employees (id, full_name, department_id, position_id, status)
        VALUES ($1, $2, $3, $4, $5)
    `, e.ID, e.FullName, nullableID(e.DepartmentID), nullableID(e.PositionID), string(e.Status))
	return translatePayrollPgError(err)
}

// Update は複製された社員行を上書きします。
func (r *PayrollEmployeeRepository) Update(ctx context.Context, e *employee.PayrollEmployee) error {
	exec := pgdb.QueryerFromContext(ctx, payrollStore, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE employees
           SET full_name = $1,
               department_id = $2,
               position_id = $3,
               status = $4,
               updated_at = now()
         WHERE id = $5
    `, e.FullName, nullableID(e.DepartmentID), nullableID(e.PositionID), string(e.Status), e.ID)
	if err != nil {
		return translatePayrollPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrMirrorMissing
	}
	return nil
}

// Delete は勤怠行を削除した後に社員行を削除します。呼び出し元のトランザクション内で実行してください。
func (r *PayrollEmployeeRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, payrollStore, r.pool)
	if _, err := exec.Exec(ctx, `DELETE FROM attendance WHERE employee_id = $1`, id); err != nil {
		return translatePayrollPgError(err)
	}
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translatePayrollPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrMirrorMissing
	}
	return nil
}

// FindByID は ID で複製された社員を取得します。
func (r *PayrollEmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.PayrollEmployee, error) {
	exec := pgdb.QueryerFromContext(ctx, payrollStore, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT id, full_name, department_id, position_id, status
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	var (
		found        employee.PayrollEmployee
		departmentID sql.NullInt64
		positionID   sql.NullInt64
		status       string
	)
	if err := row.Scan(&found.ID, &found.FullName, &departmentID, &positionID, &status); err != nil {
		return nil, translatePayrollPgError(err)
	}
	found.DepartmentID = idPtr(departmentID)
	found.PositionID = idPtr(positionID)
	found.Status = employee.Status(status)
	return &found, nil
}

func translatePayrollPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrMirrorMissing
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolationCode {
		return employee.ErrInvalidStatus
	}
	return err
}
