package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionRepository_Create(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewHRDimensionRepository(mock)

	mock.ExpectQuery(`INSERT INTO departments \(name\) VALUES \(\$1\) RETURNING id, name`).
		WithArgs("Engineering").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Engineering"))

	ref, err := repo.Create(context.Background(), dimension.KindDepartment, "Engineering")
	require.NoError(t, err)
	assert.Equal(t, dimension.Ref{Kind: dimension.KindDepartment, ID: 1, Name: "Engineering"}, *ref)
}

func TestDimensionRepository_InsertIfAbsent(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewPayrollDimensionRepository(mock)

	mock.ExpectExec(`INSERT INTO positions \(id, name\) VALUES \(\$1, \$2\) ON CONFLICT \(id\) DO NOTHING`).
		WithArgs(int64(5), "Director").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO positions`).
		WithArgs(int64(5), "Director").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	inserted, err := repo.InsertIfAbsent(context.Background(), dimension.Ref{Kind: dimension.KindPosition, ID: 5, Name: "Director"})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.InsertIfAbsent(context.Background(), dimension.Ref{Kind: dimension.KindPosition, ID: 5, Name: "Director"})
	require.NoError(t, err)
	assert.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDimensionRepository_UpdateName_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewPayrollDimensionRepository(mock)

	mock.ExpectQuery(`UPDATE departments SET name`).
		WithArgs("Eng", int64(9)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateName(context.Background(), dimension.Ref{Kind: dimension.KindDepartment, ID: 9, Name: "Eng"})
	require.ErrorIs(t, err, dimension.ErrNotFound)
}

func TestDimensionRepository_DeleteReferenced(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewPayrollDimensionRepository(mock)

	mock.ExpectExec(`DELETE FROM departments`).
		WithArgs(int64(1)).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

	err := repo.Delete(context.Background(), dimension.KindDepartment, 1)
	require.ErrorIs(t, err, dimension.ErrInUse)
}

func TestDimensionRepository_ListAndCount(t *testing.T) {
	t.Parallel()

	mock := newMockPool(t)
	repo := NewHRDimensionRepository(mock)

	mock.ExpectQuery(`SELECT id, name FROM positions ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(3), "Staff").
			AddRow(int64(5), "Director"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees WHERE position_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	refs, err := repo.List(context.Background(), dimension.KindPosition)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Director", refs[1].Name)

	n, err := repo.CountEmployees(context.Background(), dimension.KindPosition, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDimensionRepository_InvalidKind(t *testing.T) {
	t.Parallel()

	repo := NewHRDimensionRepository(newMockPool(t))
	_, err := repo.FindByID(context.Background(), dimension.Kind("team"), 1)
	require.ErrorIs(t, err, dimension.ErrInvalidKind)
}
