package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	"github.com/ogurasousui/hr-sync/internal/core/role"
	sqlitedb "github.com/ogurasousui/hr-sync/internal/platform/db/sqlite"
)

const accountColumns = `id, email, full_name, phone_number, password_hash, role, employee_id`

// AccountRepository は Identity ストアのアカウントを SQLite に永続化します。
type AccountRepository struct {
	db sqlitedb.Execer
}

// NewAccountRepository は AccountRepository を生成します。
func NewAccountRepository(db sqlitedb.Execer) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create はアカウントを作成します。
func (r *AccountRepository) Create(ctx context.Context, a *employee.Account) (*employee.Account, error) {
	exec := sqlitedb.ExecerFromContext(ctx, r.db)
	res, err := exec.ExecContext(ctx, `
        INSERT INTO accounts (email, full_name, phone_number, password_hash, role, employee_id)
        VALUES (?, ?, ?, ?, ?, ?)
    `, a.Email, a.FullName, a.PhoneNumber, a.PasswordHash, string(a.Role), nullableID(a.EmployeeID))
	if err != nil {
		return nil, translateSQLiteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("sqlite: last insert id: %w", err)
	}

	created := *a
	created.ID = id
	return &created, nil
}

// Update はメールアドレス・氏名・電話番号・ロールを更新します。パスワードハッシュは変更しません。
func (r *AccountRepository) Update(ctx context.Context, a *employee.Account) (*employee.Account, error) {
	exec := sqlitedb.ExecerFromContext(ctx, r.db)
	res, err := exec.ExecContext(ctx, `
        UPDATE accounts
           SET email = ?,
               full_name = ?,
               phone_number = ?,
               role = ?,
               updated_at = CURRENT_TIMESTAMP
         WHERE id = ?
    `, a.Email, a.FullName, a.PhoneNumber, string(a.Role), a.ID)
	if err != nil {
		return nil, translateSQLiteError(err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, employee.ErrAccountNotFound
	}

	updated := *a
	return &updated, nil
}

// DeleteByEmployeeID は社員に紐づくアカウントを削除します。
func (r *AccountRepository) DeleteByEmployeeID(ctx context.Context, employeeID int64) error {
	exec := sqlitedb.ExecerFromContext(ctx, r.db)
	res, err := exec.ExecContext(ctx, `DELETE FROM accounts WHERE employee_id = ?`, employeeID)
	if err != nil {
		return translateSQLiteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return employee.ErrAccountNotFound
	}
	return nil
}

// FindByEmployeeID は社員 ID でアカウントを取得します。
func (r *AccountRepository) FindByEmployeeID(ctx context.Context, employeeID int64) (*employee.Account, error) {
	exec := sqlitedb.ExecerFromContext(ctx, r.db)
	row := exec.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE employee_id = ? LIMIT 1`, employeeID)
	return scanAccount(row)
}

// FindByEmail はメールアドレスでアカウントを取得します。
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*employee.Account, error) {
	exec := sqlitedb.ExecerFromContext(ctx, r.db)
	row := exec.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ? LIMIT 1`, email)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*employee.Account, error) {
	var (
		a          employee.Account
		roleName   string
		employeeID sql.NullInt64
	)
	if err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.PhoneNumber, &a.PasswordHash, &roleName, &employeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, employee.ErrAccountNotFound
		}
		return nil, err
	}
	a.Role = role.Role(roleName)
	if employeeID.Valid {
		id := employeeID.Int64
		a.EmployeeID = &id
	}
	return &a, nil
}

func translateSQLiteError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		if strings.Contains(sqliteErr.Error(), "accounts.email") {
			return employee.ErrDuplicateEmail
		}
		return fmt.Errorf("sqlite: employee already has an account: %w", err)
	}
	return err
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
