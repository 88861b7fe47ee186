package employee

import (
	"time"

	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"github.com/ogurasousui/hr-sync/internal/core/role"
)

// Status は社員の在籍状態を表します。
type Status string

const (
	StatusActive     Status = "active"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
)

// IsValid は定義済みの状態かどうかを返します。
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusTerminated:
		return true
	default:
		return false
	}
}

// Employee は HR ストアが保持する社員エンティティです。
type Employee struct {
	ID           int64
	FullName     string
	Email        *string
	Gender       string
	PhoneNumber  string
	DateOfBirth  time.Time
	HireDate     time.Time
	DepartmentID *int64
	PositionID   *int64
	Status       Status
	// Department と Position は関連を結合して読み込んだ場合のみ設定されます。
	Department *dimension.Ref
	Position   *dimension.Ref
}

// PayrollMirror は Payroll ストアに複製する社員行を返します。
func (e *Employee) PayrollMirror() *PayrollEmployee {
	return &PayrollEmployee{
		ID:           e.ID,
		FullName:     e.FullName,
		DepartmentID: cloneID(e.DepartmentID),
		PositionID:   cloneID(e.PositionID),
		Status:       e.Status,
	}
}

// EmailAddress は Email を文字列で返します。未設定の場合は空文字です。
func (e *Employee) EmailAddress() string {
	if e.Email == nil {
		return ""
	}
	return *e.Email
}

// PayrollEmployee は Payroll ストアに複製された社員です。
type PayrollEmployee struct {
	ID           int64
	FullName     string
	DepartmentID *int64
	PositionID   *int64
	Status       Status
}

// Account は Identity ストアのログインアカウントです。
type Account struct {
	ID           int64
	Email        string
	FullName     string
	PhoneNumber  string
	PasswordHash string
	Role         role.Role
	EmployeeID   *int64
}

// Synced は同期済みの社員とアカウント情報をまとめた結果です。
type Synced struct {
	Employee  *Employee
	Role      role.Role
	AccountID *int64
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameID(a, b *int64) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}
