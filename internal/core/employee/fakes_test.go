package employee

import (
	"context"
	"errors"

	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"github.com/shopspring/decimal"
)

var errStoreDown = errors.New("store unavailable")

type fakeHR struct {
	employees   map[int64]*Employee
	departments map[int64]string
	positions   map[int64]string
	dividends   map[int64][]decimal.Decimal
	sequence    int64

	createErr error
	updateErr error
	deleteErr error
	findErr   error
}

func newFakeHR() *fakeHR {
	return &fakeHR{
		employees:   make(map[int64]*Employee),
		departments: map[int64]string{1: "Engineering", 2: "Human Resources", 3: "Payroll"},
		positions:   map[int64]string{3: "Staff", 5: "Director"},
		dividends:   make(map[int64][]decimal.Decimal),
	}
}

func (h *fakeHR) join(e *Employee) (*Employee, error) {
	clone := cloneEmployee(e)
	clone.Department, clone.Position = nil, nil
	if e.DepartmentID != nil {
		name, ok := h.departments[*e.DepartmentID]
		if !ok {
			return nil, ErrUnknownDimension
		}
		clone.Department = &dimension.Ref{Kind: dimension.KindDepartment, ID: *e.DepartmentID, Name: name}
	}
	if e.PositionID != nil {
		name, ok := h.positions[*e.PositionID]
		if !ok {
			return nil, ErrUnknownDimension
		}
		clone.Position = &dimension.Ref{Kind: dimension.KindPosition, ID: *e.PositionID, Name: name}
	}
	return clone, nil
}

func (h *fakeHR) Create(_ context.Context, e *Employee) (*Employee, error) {
	if h.createErr != nil {
		return nil, h.createErr
	}
	for _, existing := range h.employees {
		if existing.EmailAddress() == e.EmailAddress() {
			return nil, ErrDuplicateEmail
		}
	}
	joined, err := h.join(e)
	if err != nil {
		return nil, err
	}
	h.sequence++
	joined.ID = h.sequence
	h.employees[joined.ID] = cloneEmployee(joined)
	return joined, nil
}

func (h *fakeHR) Update(_ context.Context, e *Employee) (*Employee, error) {
	if h.updateErr != nil {
		return nil, h.updateErr
	}
	if _, ok := h.employees[e.ID]; !ok {
		return nil, ErrEmployeeNotFound
	}
	joined, err := h.join(e)
	if err != nil {
		return nil, err
	}
	h.employees[e.ID] = cloneEmployee(joined)
	return joined, nil
}

func (h *fakeHR) Delete(_ context.Context, id int64) error {
	if h.deleteErr != nil {
		return h.deleteErr
	}
	if _, ok := h.employees[id]; !ok {
		return ErrEmployeeNotFound
	}
	delete(h.employees, id)
	return nil
}

func (h *fakeHR) FindByID(_ context.Context, id int64) (*Employee, error) {
	if h.findErr != nil {
		return nil, h.findErr
	}
	e, ok := h.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

func (h *fakeHR) FindByEmail(_ context.Context, email string) (*Employee, error) {
	for _, e := range h.employees {
		if e.EmailAddress() == email {
			return cloneEmployee(e), nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (h *fakeHR) SummarizeDividends(_ context.Context, employeeID int64) (LedgerSummary, error) {
	return summarize(h.dividends[employeeID]), nil
}

type fakePayroll struct {
	employees  map[int64]*PayrollEmployee
	attendance map[int64]int
	salaries   map[int64][]decimal.Decimal

	createErr error
	updateErr error
	deleteErr error
}

func newFakePayroll() *fakePayroll {
	return &fakePayroll{
		employees:  make(map[int64]*PayrollEmployee),
		attendance: make(map[int64]int),
		salaries:   make(map[int64][]decimal.Decimal),
	}
}

func (p *fakePayroll) Create(_ context.Context, e *PayrollEmployee) error {
	if p.createErr != nil {
		return p.createErr
	}
	clone := *e
	p.employees[e.ID] = &clone
	return nil
}

func (p *fakePayroll) Update(_ context.Context, e *PayrollEmployee) error {
	if p.updateErr != nil {
		return p.updateErr
	}
	if _, ok := p.employees[e.ID]; !ok {
		return ErrMirrorMissing
	}
	clone := *e
	p.employees[e.ID] = &clone
	return nil
}

func (p *fakePayroll) Delete(_ context.Context, id int64) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	delete(p.attendance, id)
	if _, ok := p.employees[id]; !ok {
		return ErrMirrorMissing
	}
	delete(p.employees, id)
	return nil
}

func (p *fakePayroll) FindByID(_ context.Context, id int64) (*PayrollEmployee, error) {
	if p.updateErr != nil {
		return nil, p.updateErr
	}
	e, ok := p.employees[id]
	if !ok {
		return nil, ErrMirrorMissing
	}
	clone := *e
	return &clone, nil
}

func (p *fakePayroll) SummarizeSalaries(_ context.Context, employeeID int64) (LedgerSummary, error) {
	return summarize(p.salaries[employeeID]), nil
}

type fakeIdentity struct {
	accounts      map[int64]*Account
	shareholdings map[int64][]int64
	sequence      int64

	createErr error
	updateErr error
	deleteErr error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		accounts:      make(map[int64]*Account),
		shareholdings: make(map[int64][]int64),
	}
}

func (i *fakeIdentity) Create(_ context.Context, a *Account) (*Account, error) {
	if i.createErr != nil {
		return nil, i.createErr
	}
	for _, existing := range i.accounts {
		if existing.Email == a.Email {
			return nil, ErrDuplicateEmail
		}
	}
	i.sequence++
	clone := *a
	clone.ID = i.sequence
	i.accounts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (i *fakeIdentity) Update(_ context.Context, a *Account) (*Account, error) {
	if i.updateErr != nil {
		return nil, i.updateErr
	}
	if _, ok := i.accounts[a.ID]; !ok {
		return nil, ErrAccountNotFound
	}
	clone := *a
	i.accounts[a.ID] = &clone
	out := clone
	return &out, nil
}

func (i *fakeIdentity) DeleteByEmployeeID(_ context.Context, employeeID int64) error {
	if i.deleteErr != nil {
		return i.deleteErr
	}
	a, err := i.FindByEmployeeID(context.Background(), employeeID)
	if err != nil {
		return err
	}
	delete(i.accounts, a.ID)
	return nil
}

func (i *fakeIdentity) FindByEmployeeID(_ context.Context, employeeID int64) (*Account, error) {
	for _, a := range i.accounts {
		if a.EmployeeID != nil && *a.EmployeeID == employeeID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (i *fakeIdentity) FindByEmail(_ context.Context, email string) (*Account, error) {
	for _, a := range i.accounts {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (i *fakeIdentity) ActiveShares(_ context.Context, employeeID int64) (int, int64, error) {
	var (
		count int
		total int64
	)
	for _, shares := range i.shareholdings[employeeID] {
		if shares > 0 {
			count++
			total += shares
		}
	}
	return count, total, nil
}

type fakeMirror struct {
	refs map[dimension.Kind]map[int64]string
	err  error
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{refs: map[dimension.Kind]map[int64]string{
		dimension.KindDepartment: {},
		dimension.KindPosition:   {},
	}}
}

func (m *fakeMirror) EnsureAll(_ context.Context, refs ...*dimension.Ref) error {
	if m.err != nil {
		return m.err
	}
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if _, ok := m.refs[ref.Kind][ref.ID]; !ok {
			m.refs[ref.Kind][ref.ID] = ref.Name
		}
	}
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) {
	return "$2a$04$hashed-" + plain, nil
}

func summarize(amounts []decimal.Decimal) LedgerSummary {
	total := decimal.Zero
	for _, amount := range amounts {
		total = total.Add(amount)
	}
	return LedgerSummary{Count: len(amounts), Total: total}
}

func cloneEmployee(e *Employee) *Employee {
	clone := *e
	if e.Email != nil {
		v := *e.Email
		clone.Email = &v
	}
	clone.DepartmentID = cloneID(e.DepartmentID)
	clone.PositionID = cloneID(e.PositionID)
	if e.Department != nil {
		ref := *e.Department
		clone.Department = &ref
	}
	if e.Position != nil {
		ref := *e.Position
		clone.Position = &ref
	}
	return &clone
}
