package role

import "slices"

// Role はアカウントに付与されるアクセスロールです。
type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleHRManager      Role = "HR Manager"
	RolePayrollManager Role = "Payroll Manager"
	RoleEmployee       Role = "Employee"
)

// IsValid は定義済みのロールかどうかを返します。
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleHRManager, RolePayrollManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// Rules は部署・役職 ID からロールを導出するための対応表です。
type Rules struct {
	AdminPositionIDs     []int64
	HRDepartmentIDs      []int64
	PayrollDepartmentIDs []int64
}

// DefaultRules は既定の対応表を返します。
func DefaultRules() Rules {
	return Rules{
		AdminPositionIDs:     []int64{5},
		HRDepartmentIDs:      []int64{2},
		PayrollDepartmentIDs: []int64{3},
	}
}

// Classify は部署 ID と役職 ID からロールを決定します。
// 役職による Admin 判定が部署による判定より優先されます。
func (r Rules) Classify(departmentID, positionID *int64) Role {
	switch {
	case positionID != nil && slices.Contains(r.AdminPositionIDs, *positionID):
		return RoleAdmin
	case departmentID != nil && slices.Contains(r.HRDepartmentIDs, *departmentID):
		return RoleHRManager
	case departmentID != nil && slices.Contains(r.PayrollDepartmentIDs, *departmentID):
		return RolePayrollManager
	default:
		return RoleEmployee
	}
}

// Classify は DefaultRules で部署 ID と役職 ID からロールを決定します。
func Classify(departmentID, positionID *int64) Role {
	return DefaultRules().Classify(departmentID, positionID)
}
