package dimension

import "context"

// HRRepository は HR ストアの部署・役職の永続化の抽象です。
type HRRepository interface {
	Create(ctx context.Context, kind Kind, name string) (*Ref, error)
	UpdateName(ctx context.Context, ref Ref) (*Ref, error)
	Delete(ctx context.Context, kind Kind, id int64) error
	FindByID(ctx context.Context, kind Kind, id int64) (*Ref, error)
	List(ctx context.Context, kind Kind) ([]*Ref, error)
	CountEmployees(ctx context.Context, kind Kind, id int64) (int, error)
}

// PayrollRepository は Payroll ストアに複製された部署・役職の永続化の抽象です。
type PayrollRepository interface {
	// InsertIfAbsent は同じ ID の行が無い場合のみ挿入し、挿入したかどうかを返します。既存行の名前は変更しません。
	InsertIfAbsent(ctx context.Context, ref Ref) (bool, error)
	UpdateName(ctx context.Context, ref Ref) (*Ref, error)
	Delete(ctx context.Context, kind Kind, id int64) error
	FindByID(ctx context.Context, kind Kind, id int64) (*Ref, error)
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
