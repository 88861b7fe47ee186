package dimension

import (
	"context"
	"fmt"
	"strings"
)

// Mirror は Payroll ストアへ部署・役職行を冪等に複製します。
// 呼び出し元の Payroll トランザクション内で使われることを前提とします。
type Mirror struct {
	payroll PayrollRepository
}

// NewMirror は Mirror を生成します。
func NewMirror(payroll PayrollRepository) *Mirror {
	return &Mirror{payroll: payroll}
}

// Ensure は ref が Payroll ストアに存在しなければ挿入します。
// 既存行の名前は上書きしません。名前の訂正は Service.Update を経由させます。
func (m *Mirror) Ensure(ctx context.Context, ref Ref) error {
	if !ref.Kind.IsValid() {
		return ErrInvalidKind
	}
	if ref.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(ref.Name) == "" {
		return ErrInvalidName
	}

	if _, err := m.payroll.InsertIfAbsent(ctx, ref); err != nil {
		return fmt.Errorf("dimension: mirror %s %d: %w", ref.Kind, ref.ID, err)
	}
	return nil
}

// EnsureAll は nil を除くすべての ref を Ensure します。
func (m *Mirror) EnsureAll(ctx context.Context, refs ...*Ref) error {
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if err := m.Ensure(ctx, *ref); err != nil {
			return err
		}
	}
	return nil
}
