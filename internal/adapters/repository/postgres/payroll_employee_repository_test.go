package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	pgdb "github.com/ogurasousui/hr-sync/internal/platform/db/postgres"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollEmployeeRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewPayrollEmployeeRepository(mock)

	mock.ExpectExec(`INSERT INTO employees \(id, full_name, department_id, position_id, status\)`).
		WithArgs(int64(10), "Hanako Yamada", int64(1), nil, "active").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &employee.PayrollEmployee{
		ID:           10,
		FullName:     "Hanako Yamada",
		DepartmentID: int64Ptr(1),
		Status:       employee.StatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollEmployeeRepository_UpdateMissingRow(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewPayrollEmployeeRepository(mock)

	mock.ExpectExec(`UPDATE employees`).
		WithArgs("Hanako", nil, nil, "terminated", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &employee.PayrollEmployee{ID: 3, FullName: "Hanako", Status: employee.StatusTerminated})
	require.ErrorIs(t, err, employee.ErrMirrorMissing)
}

func TestPayrollEmployeeRepository_DeleteRemovesAttendanceInSameTx(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewPayrollEmployeeRepository(mock)
	tx := pgdb.NewTransactionManager(payrollStore, mock)

	mock.ExpectBeginTx(pgx.TxOptions{AccessMode: pgx.ReadWrite})
	mock.ExpectExec(`DELETE FROM attendance WHERE employee_id = \$1`).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 12))
	mock.ExpectExec(`DELETE FROM employees WHERE id = \$1`).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	err := tx.WithinReadWrite(context.Background(), func(ctx context.Context) error {
		return repo.Delete(ctx, 5)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrollEmployeeRepository_FindByID(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewPayrollEmployeeRepository(mock)

	mock.ExpectQuery(`SELECT id, full_name, department_id, position_id, status`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "full_name", "department_id", "position_id", "status"}).
			AddRow(int64(5), "Taro", int64(2), int64(5), "active"))
	mock.ExpectQuery(`SELECT id, full_name, department_id, position_id, status`).
		WithArgs(int64(6)).
		WillReturnError(pgx.ErrNoRows)

	found, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *found.DepartmentID)
	assert.Equal(t, int64(5), *found.PositionID)

	_, err = repo.FindByID(context.Background(), 6)
	require.ErrorIs(t, err, employee.ErrMirrorMissing)
}
