package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	"github.com/ogurasousui/hr-sync/internal/core/role"
	"github.com/ogurasousui/hr-sync/internal/platform/config"
	sqlitedb "github.com/ogurasousui/hr-sync/internal/platform/db/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openIdentityDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "identity.db"), BusyTimeout: time.Second}

	dir, err := filepath.Abs(filepath.Join("..", "..", "..", "..", "assets", "migrations", "identity"))
	require.NoError(t, err)
	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.MigrateURL())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	db, err := sqlitedb.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newAccount(email string, employeeID int64) *employee.Account {
	return &employee.Account{
		Email:        email,
		FullName:     "Hanako Yamada",
		PhoneNumber:  "+81 90-1234-5678",
		PasswordHash: "$2a$12$abcdefghijklmnopqrstuv",
		Role:         role.RoleEmployee,
		EmployeeID:   &employeeID,
	}
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	t.Parallel()

	repo := NewAccountRepository(openIdentityDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount("hanako@example.com", 10))
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	byEmployee, err := repo.FindByEmployeeID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmployee.ID)
	assert.Equal(t, role.RoleEmployee, byEmployee.Role)
	assert.Equal(t, "$2a$12$abcdefghijklmnopqrstuv", byEmployee.PasswordHash)

	byEmail, err := repo.FindByEmail(ctx, "hanako@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(10), *byEmail.EmployeeID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, employee.ErrAccountNotFound)
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := NewAccountRepository(openIdentityDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newAccount("hanako@example.com", 10))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAccount("hanako@example.com", 11))
	require.ErrorIs(t, err, employee.ErrDuplicateEmail)

	_, err = repo.Create(ctx, newAccount("other@example.com", 10))
	require.Error(t, err)
	assert.NotErrorIs(t, err, employee.ErrDuplicateEmail)
}

func TestAccountRepository_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	repo := NewAccountRepository(openIdentityDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount("hanako@example.com", 10))
	require.NoError(t, err)

	created.Role = role.RoleAdmin
	created.Email = "director@example.com"
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	found, err := repo.FindByEmployeeID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, role.RoleAdmin, found.Role)
	assert.Equal(t, "director@example.com", found.Email)

	_, err = repo.Update(ctx, &employee.Account{ID: 999, Email: "x@example.com", Role: role.RoleEmployee})
	require.ErrorIs(t, err, employee.ErrAccountNotFound)

	require.NoError(t, repo.DeleteByEmployeeID(ctx, 10))
	require.ErrorIs(t, repo.DeleteByEmployeeID(ctx, 10), employee.ErrAccountNotFound)
}

func TestAccountRepository_RollsBackWithTransaction(t *testing.T) {
	t.Parallel()

	db := openIdentityDB(t)
	repo := NewAccountRepository(db)
	tx := sqlitedb.NewTransactionManager(db)
	ctx := context.Background()

	err := tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, newAccount("hanako@example.com", 10)); err != nil {
			return err
		}
		_, err := repo.Create(txCtx, newAccount("hanako@example.com", 11))
		return err
	})
	require.ErrorIs(t, err, employee.ErrDuplicateEmail)

	_, err = repo.FindByEmployeeID(ctx, 10)
	require.ErrorIs(t, err, employee.ErrAccountNotFound)
}

func TestShareholdingLedger_ActiveShares(t *testing.T) {
	t.Parallel()

	db := openIdentityDB(t)
	_, err := db.Exec(`INSERT INTO shareholdings (employee_id, shares) VALUES (7, 100), (7, 0), (7, 25), (8, 0)`)
	require.NoError(t, err)

	ledger := NewShareholdingLedger(db)

	count, shares, err := ledger.ActiveShares(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(125), shares)

	count, shares, err = ledger.ActiveShares(context.Background(), 8)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, shares)
}
