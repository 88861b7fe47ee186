package dimension

// Kind は参照データの種類を表します。
type Kind string

const (
	KindDepartment Kind = "department"
	KindPosition   Kind = "position"
)

// IsValid は定義済みの種類かどうかを返します。
func (k Kind) IsValid() bool {
	switch k {
	case KindDepartment, KindPosition:
		return true
	default:
		return false
	}
}

// Ref は部署または役職の参照データ行です。HR と Payroll の両ストアに同じ ID で保持されます。
type Ref struct {
	Kind Kind
	ID   int64
	Name string
}
