package employee

import (
	"context"

	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"github.com/ogurasousui/hr-sync/internal/core/role"
)

// HRRepository は HR ストアの社員永続化の抽象です。
// Create・Update・FindByID は部署・役職を結合した状態で返します。
type HRRepository interface {
	Create(ctx context.Context, e *Employee) (*Employee, error)
	Update(ctx context.Context, e *Employee) (*Employee, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
}

// PayrollRepository は Payroll ストアの社員永続化の抽象です。
// 対象行が無い場合 Update・Delete・FindByID は ErrMirrorMissing を返します。
type PayrollRepository interface {
	Create(ctx context.Context, e *PayrollEmployee) error
	Update(ctx context.Context, e *PayrollEmployee) error
	// Delete は勤怠行を削除した後に社員行を削除します。
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*PayrollEmployee, error)
}

// IdentityRepository は Identity ストアのアカウント永続化の抽象です。
// メールアドレスの一意制約違反は ErrDuplicateEmail として返します。
type IdentityRepository interface {
	Create(ctx context.Context, a *Account) (*Account, error)
	Update(ctx context.Context, a *Account) (*Account, error)
	DeleteByEmployeeID(ctx context.Context, employeeID int64) error
	FindByEmployeeID(ctx context.Context, employeeID int64) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// PasswordHasher はパスワードのハッシュ化を行います。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// RoleClassifier は部署・役職からロールを導出します。
type RoleClassifier interface {
	Classify(departmentID, positionID *int64) role.Role
}

// DimensionMirror は部署・役職を Payroll ストアへ複製します。
type DimensionMirror interface {
	EnsureAll(ctx context.Context, refs ...*dimension.Ref) error
}

// DeletionGuard は社員を削除できるかを判定します。
type DeletionGuard interface {
	Check(ctx context.Context, employeeID int64) (*DeletionCheck, error)
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}
