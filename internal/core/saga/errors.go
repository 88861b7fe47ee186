package saga

import (
	"fmt"
	"strings"
)

// Store は同期対象のストアを表します。
type Store string

const (
	StoreHR       Store = "hr"
	StorePayroll  Store = "payroll"
	StoreIdentity Store = "identity"
)

// Op はサガの種類を表します。
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// WriteError は権威ストアへの最初の書き込みが失敗したことを表します。
// 他ストアへは何も書き込まれていないため補償は不要です。
type WriteError struct {
	Op    Op
	Store Store
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("saga: %s on %s failed: %v", e.Op, e.Store, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// SyncError は作成中に下流ストアへの書き込みが失敗したことを表します。
// 返却前に補償は実行済みで、RollbackErr が nil であれば孤立行は残っていません。
type SyncError struct {
	Store       Store
	Cause       error
	RollbackErr error
}

func (e *SyncError) Error() string {
	msg := fmt.Sprintf("saga: sync to %s failed: %v", e.Store, e.Cause)
	if e.RollbackErr != nil {
		msg += fmt.Sprintf("; compensation failed: %v", e.RollbackErr)
	}
	return msg
}

func (e *SyncError) Unwrap() []error {
	if e.RollbackErr == nil {
		return []error{e.Cause}
	}
	return []error{e.Cause, e.RollbackErr}
}

// Compensated は補償がすべて成功したかを返します。
func (e *SyncError) Compensated() bool {
	return e.RollbackErr == nil
}

// SyncWarning は権威ストアの更新は成功したが、ミラーへの反映が失敗したことを表します。
// 呼び出し全体の失敗ではありません。
type SyncWarning struct {
	Store Store
	Cause error
}

func (w SyncWarning) Error() string {
	return fmt.Sprintf("saga: propagation to %s failed: %v", w.Store, w.Cause)
}

func (w SyncWarning) Unwrap() error {
	return w.Cause
}

// PartialFailure は削除の途中でストアが失敗したことを表します。
// Completed のストアは既に変更済みで、巻き戻しは行われません。手動での整合回復が必要です。
type PartialFailure struct {
	Op        Op
	FailedAt  Store
	Completed []Store
	Cause     error
}

func (e *PartialFailure) Error() string {
	completed := make([]string, 0, len(e.Completed))
	for _, s := range e.Completed {
		completed = append(completed, string(s))
	}
	return fmt.Sprintf("saga: %s failed at %s after [%s]: %v", e.Op, e.FailedAt, strings.Join(completed, ", "), e.Cause)
}

func (e *PartialFailure) Unwrap() error {
	return e.Cause
}
