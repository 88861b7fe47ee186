package employee

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/ogurasousui/hr-sync/internal/core/role"
	"github.com/ogurasousui/hr-sync/internal/core/saga"
	"github.com/rs/zerolog"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

const (
	maxFullNameLength = 100
	maxGenderLength   = 20
	minPasswordLength = 8
	// bcrypt は 72 バイトを超える入力を扱えません。
	maxPasswordBytes = 72
)

var phoneNumberPattern = regexp.MustCompile(`^\+?[0-9][0-9 -]{0,19}$`)

// UseCase は社員同期ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Synced, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Synced, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Synced, []saga.SyncWarning, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
}

// Dependencies は Service の依存関係です。
type Dependencies struct {
	HR         HRRepository
	Payroll    PayrollRepository
	Identity   IdentityRepository
	HRTx       TransactionManager
	PayrollTx  TransactionManager
	IdentityTx TransactionManager
	Mirror     DimensionMirror
	Guard      DeletionGuard
	Roles      RoleClassifier
	Hasher     PasswordHasher
	Clock      Clock
	Logger     zerolog.Logger
	// NewSagaID はログ相関用の ID を生成します。未指定の場合は UUID を使います。
	NewSagaID func() string
}

// Service は HR・Payroll・Identity の 3 ストアにまたがる社員の作成・更新・削除を調停します。
type Service struct {
	hr         HRRepository
	payroll    PayrollRepository
	identity   IdentityRepository
	hrTx       TransactionManager
	payrollTx  TransactionManager
	identityTx TransactionManager
	mirror     DimensionMirror
	guard      DeletionGuard
	roles      RoleClassifier
	hasher     PasswordHasher
	clock      Clock
	logger     zerolog.Logger
	newSagaID  func() string
}

// NewService は Service を生成します。
func NewService(deps Dependencies) *Service {
	s := &Service{
		hr:         deps.HR,
		payroll:    deps.Payroll,
		identity:   deps.Identity,
		hrTx:       deps.HRTx,
		payrollTx:  deps.PayrollTx,
		identityTx: deps.IdentityTx,
		mirror:     deps.Mirror,
		guard:      deps.Guard,
		roles:      deps.Roles,
		hasher:     deps.Hasher,
		clock:      deps.Clock,
		logger:     deps.Logger,
		newSagaID:  deps.NewSagaID,
	}
	if s.hrTx == nil {
		s.hrTx = noopTransactionManager{}
	}
	if s.payrollTx == nil {
		s.payrollTx = noopTransactionManager{}
	}
	if s.identityTx == nil {
		s.identityTx = noopTransactionManager{}
	}
	if s.roles == nil {
		s.roles = role.DefaultRules()
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.newSagaID == nil {
		s.newSagaID = uuid.NewString
	}
	return s
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	FullName     string
	Email        string
	Password     string
	Gender       string
	PhoneNumber  string
	DateOfBirth  time.Time
	HireDate     time.Time
	DepartmentID *int64
	PositionID   *int64
	Status       *Status
}

// UpdateEmployeeInput は社員更新時の入力です。nil のフィールドは変更しません。
// DepartmentIDSet・PositionIDSet が true で値が nil の場合は割り当てを解除します。
type UpdateEmployeeInput struct {
	ID              int64
	FullName        *string
	Email           *string
	Gender          *string
	PhoneNumber     *string
	DateOfBirth     *time.Time
	HireDate        *time.Time
	DepartmentID    *int64
	DepartmentIDSet bool
	PositionID      *int64
	PositionIDSet   bool
	Status          *Status
}

// DeleteEmployeeInput は社員削除時の入力です。
type DeleteEmployeeInput struct {
	ID int64
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID int64
}

// CreateEmployee は HR、Payroll、Identity の順に社員を作成します。
// 途中のストアが失敗した場合は作成済みの行を逆順に削除し、*saga.SyncError を返します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Synced, error) {
	draft, err := s.buildEmployee(in)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("employee: hash password: %w", err)
	}

	ctx, logger := s.startSaga(ctx, saga.OpCreate)

	if err := s.ensureEmailAvailable(ctx, *draft.Email, 0); err != nil {
		return nil, err
	}

	var created *Employee
	if err := s.hrTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		e, err := s.hr.Create(txCtx, draft)
		if err != nil {
			return err
		}
		created = e
		return nil
	}); err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrValidation) {
			return nil, err
		}
		logger.Error().Err(err).Str("store", string(saga.StoreHR)).Msg("employee create failed")
		return nil, &saga.WriteError{Op: saga.OpCreate, Store: saga.StoreHR, Cause: err}
	}
	logger.Debug().Int64("employee_id", created.ID).Msg("hr committed")

	comp := saga.NewCompensator(logger)
	comp.Push(saga.StoreHR, "delete hr employee", func(ctx context.Context) error {
		return s.hrTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
			return s.hr.Delete(txCtx, created.ID)
		})
	})

	if err := s.payrollTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.mirror.EnsureAll(txCtx, created.Department, created.Position); err != nil {
			return err
		}
		return s.payroll.Create(txCtx, created.PayrollMirror())
	}); err != nil {
		return nil, s.abort(ctx, logger, comp, saga.StorePayroll, err)
	}
	logger.Debug().Int64("employee_id", created.ID).Msg("payroll synced")

	comp.Push(saga.StorePayroll, "delete payroll employee", func(ctx context.Context) error {
		return s.payrollTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
			return s.payroll.Delete(txCtx, created.ID)
		})
	})

	var joined *Employee
	if err := s.hrTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		e, err := s.hr.FindByID(txCtx, created.ID)
		if err != nil {
			return err
		}
		joined = e
		return nil
	}); err != nil {
		return nil, s.abort(ctx, logger, comp, saga.StoreIdentity, fmt.Errorf("reload employee: %w", err))
	}

	assigned := s.roles.Classify(joined.DepartmentID, joined.PositionID)
	var account *Account
	if err := s.identityTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		a, err := s.identity.Create(txCtx, &Account{
			Email:        joined.EmailAddress(),
			FullName:     joined.FullName,
			PhoneNumber:  joined.PhoneNumber,
			PasswordHash: hash,
			Role:         assigned,
			EmployeeID:   cloneID(&joined.ID),
		})
		if err != nil {
			return err
		}
		account = a
		return nil
	}); err != nil {
		syncErr := s.abort(ctx, logger, comp, saga.StoreIdentity, err)
		if errors.Is(err, ErrDuplicateEmail) && syncErr.Compensated() {
			return nil, ErrDuplicateEmail
		}
		return nil, syncErr
	}

	logger.Info().
		Int64("employee_id", joined.ID).
		Int64("account_id", account.ID).
		Str("role", string(account.Role)).
		Msg("employee created")
	return s.synced(joined, account), nil
}

// UpdateEmployee は HR を更新した後、Payroll と Identity へ個別のトランザクションで反映します。
// 反映の失敗は呼び出し全体の失敗にはせず、警告として返します。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Synced, []saga.SyncWarning, error) {
	if in.ID <= 0 {
		return nil, nil, ErrInvalidID
	}
	patch, err := s.normalizeUpdate(in)
	if err != nil {
		return nil, nil, err
	}

	ctx, logger := s.startSaga(ctx, saga.OpUpdate)
	logger = logger.With().Int64("employee_id", in.ID).Logger()

	if patch.email != nil {
		if err := s.ensureAccountEmailAvailable(ctx, *patch.email, in.ID); err != nil {
			return nil, nil, err
		}
	}

	var (
		updated *Employee
		changes changeSet
	)
	if err := s.hrTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.hr.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		changes = patch.apply(existing)
		if !changes.any() {
			updated = existing
			return nil
		}
		if err := s.validateDates(existing.DateOfBirth, existing.HireDate); err != nil {
			return err
		}
		if changes.email {
			found, err := s.hr.FindByEmail(txCtx, existing.EmailAddress())
			if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
				return err
			}
			if found != nil && found.ID != existing.ID {
				return ErrDuplicateEmail
			}
		}
		e, err := s.hr.Update(txCtx, existing)
		if err != nil {
			return err
		}
		updated = e
		return nil
	}); err != nil {
		if errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrValidation) {
			return nil, nil, err
		}
		logger.Error().Err(err).Str("store", string(saga.StoreHR)).Msg("employee update failed")
		return nil, nil, &saga.WriteError{Op: saga.OpUpdate, Store: saga.StoreHR, Cause: err}
	}

	var warnings []saga.SyncWarning
	if changes.payroll() {
		if err := s.propagatePayroll(ctx, updated, changes); err != nil {
			warnings = append(warnings, s.warn(logger, saga.StorePayroll, err))
		}
	}

	var account *Account
	if changes.identity() {
		a, err := s.propagateIdentity(ctx, updated, changes)
		if err != nil {
			warnings = append(warnings, s.warn(logger, saga.StoreIdentity, err))
		}
		account = a
	}
	if account == nil {
		account = s.lookupAccount(ctx, logger, updated.ID)
	}

	logger.Info().Int("warnings", len(warnings)).Msg("employee updated")
	return s.synced(updated, account), warnings, nil
}

// DeleteEmployee は参照チェックの後、Identity、Payroll、HR の順に社員を削除します。
// 途中で失敗した場合は巻き戻さず *saga.PartialFailure を返します。
// 最初の Identity で失敗した場合は何も変更されていないため *saga.WriteError を返します。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	if in.ID <= 0 {
		return ErrInvalidID
	}

	ctx, logger := s.startSaga(ctx, saga.OpDelete)
	logger = logger.With().Int64("employee_id", in.ID).Logger()

	if err := s.hrTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		_, err := s.hr.FindByID(txCtx, in.ID)
		return err
	}); err != nil {
		return err
	}

	check, err := s.guard.Check(ctx, in.ID)
	if err != nil {
		return err
	}
	if !check.Allowed {
		logger.Info().Interface("blockers", check.Blockers.Kinds()).Msg("employee deletion blocked")
		return &DeletionBlockedError{Blockers: check.Blockers}
	}

	var completed []saga.Store

	if err := s.identityTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		err := s.identity.DeleteByEmployeeID(txCtx, in.ID)
		if errors.Is(err, ErrAccountNotFound) {
			return nil
		}
		return err
	}); err != nil {
		return s.partialFailure(logger, saga.StoreIdentity, completed, err)
	}
	completed = append(completed, saga.StoreIdentity)

	if err := s.payrollTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		err := s.payroll.Delete(txCtx, in.ID)
		if errors.Is(err, ErrMirrorMissing) {
			return nil
		}
		return err
	}); err != nil {
		return s.partialFailure(logger, saga.StorePayroll, completed, err)
	}
	completed = append(completed, saga.StorePayroll)

	if err := s.hrTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.hr.Delete(txCtx, in.ID)
	}); err != nil {
		return s.partialFailure(logger, saga.StoreHR, completed, err)
	}

	logger.Info().Msg("employee deleted")
	return nil
}

// GetEmployee は HR の社員にアカウントのロールを合わせて返します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Synced, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidID
	}

	var found *Employee
	if err := s.hrTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		e, err := s.hr.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		found = e
		return nil
	}); err != nil {
		return nil, err
	}

	return s.synced(found, s.lookupAccount(ctx, s.logger, found.ID)), nil
}

func (s *Service) propagatePayroll(ctx context.Context, e *Employee, changes changeSet) error {
	return s.payrollTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.payroll.FindByID(txCtx, e.ID); err != nil {
			return err
		}
		if changes.dimensions() {
			if err := s.mirror.EnsureAll(txCtx, e.Department, e.Position); err != nil {
				return err
			}
		}
		return s.payroll.Update(txCtx, e.PayrollMirror())
	})
}

// propagateIdentity は紐づくアカウントを更新します。アカウントが無い場合は何もせず nil を返します。
func (s *Service) propagateIdentity(ctx context.Context, e *Employee, changes changeSet) (*Account, error) {
	var account *Account
	err := s.identityTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.identity.FindByEmployeeID(txCtx, e.ID)
		if errors.Is(err, ErrAccountNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		existing.FullName = e.FullName
		existing.PhoneNumber = e.PhoneNumber
		existing.Email = e.EmailAddress()
		if changes.dimensions() {
			existing.Role = s.roles.Classify(e.DepartmentID, e.PositionID)
		}
		a, err := s.identity.Update(txCtx, existing)
		if err != nil {
			return err
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) lookupAccount(ctx context.Context, logger zerolog.Logger, employeeID int64) *Account {
	var account *Account
	if err := s.identityTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		a, err := s.identity.FindByEmployeeID(txCtx, employeeID)
		if err != nil {
			return err
		}
		account = a
		return nil
	}); err != nil {
		if !errors.Is(err, ErrAccountNotFound) {
			logger.Warn().Err(err).Int64("employee_id", employeeID).Msg("account lookup failed")
		}
		return nil
	}
	return account
}

func (s *Service) synced(e *Employee, account *Account) *Synced {
	out := &Synced{Employee: e}
	if account != nil {
		out.Role = account.Role
		out.AccountID = cloneID(&account.ID)
		return out
	}
	out.Role = s.roles.Classify(e.DepartmentID, e.PositionID)
	return out
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string, employeeID int64) error {
	if err := s.hrTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.hr.FindByEmail(txCtx, email)
		if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
			return err
		}
		if found != nil && found.ID != employeeID {
			return ErrDuplicateEmail
		}
		return nil
	}); err != nil {
		return err
	}
	return s.ensureAccountEmailAvailable(ctx, email, employeeID)
}

func (s *Service) ensureAccountEmailAvailable(ctx context.Context, email string, employeeID int64) error {
	return s.identityTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.identity.FindByEmail(txCtx, email)
		if err != nil && !errors.Is(err, ErrAccountNotFound) {
			return err
		}
		if found == nil {
			return nil
		}
		if employeeID > 0 && found.EmployeeID != nil && *found.EmployeeID == employeeID {
			return nil
		}
		return ErrDuplicateEmail
	})
}

func (s *Service) startSaga(ctx context.Context, op saga.Op) (context.Context, zerolog.Logger) {
	logger := s.logger.With().
		Str("saga_id", s.newSagaID()).
		Str("saga_op", string(op)).
		Logger()
	return logger.WithContext(ctx), logger
}

func (s *Service) abort(ctx context.Context, logger zerolog.Logger, comp *saga.Compensator, store saga.Store, cause error) *saga.SyncError {
	logger.Error().Err(cause).Str("store", string(store)).Int("undo_steps", comp.Len()).Msg("employee sync failed, compensating")
	syncErr := comp.Abort(ctx, store, cause)
	if !syncErr.Compensated() {
		logger.Error().Err(syncErr.RollbackErr).Msg("compensation incomplete, manual reconciliation required")
	}
	return syncErr
}

func (s *Service) warn(logger zerolog.Logger, store saga.Store, cause error) saga.SyncWarning {
	logger.Warn().Err(cause).Str("store", string(store)).Msg("employee propagation failed")
	return saga.SyncWarning{Store: store, Cause: cause}
}

func (s *Service) partialFailure(logger zerolog.Logger, failedAt saga.Store, completed []saga.Store, cause error) error {
	if len(completed) == 0 {
		logger.Error().Err(cause).Str("store", string(failedAt)).Msg("employee delete failed")
		return &saga.WriteError{Op: saga.OpDelete, Store: failedAt, Cause: cause}
	}
	logger.Error().
		Err(cause).
		Str("failed_at", string(failedAt)).
		Interface("completed", completed).
		Msg("employee delete partially applied")
	return &saga.PartialFailure{Op: saga.OpDelete, FailedAt: failedAt, Completed: completed, Cause: cause}
}

func (s *Service) buildEmployee(in CreateEmployeeInput) (*Employee, error) {
	fullName, err := normalizeFullName(in.FullName)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	gender, err := normalizeGender(in.Gender)
	if err != nil {
		return nil, err
	}
	phone, err := normalizePhoneNumber(in.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if in.DateOfBirth.IsZero() {
		return nil, ErrInvalidDateOfBirth
	}
	if in.HireDate.IsZero() {
		return nil, ErrInvalidHireDate
	}
	dob, hired := normalizeDate(in.DateOfBirth), normalizeDate(in.HireDate)
	if err := s.validateDates(dob, hired); err != nil {
		return nil, err
	}
	if err := validateDimensionID(in.DepartmentID, ErrInvalidDepartmentID); err != nil {
		return nil, err
	}
	if err := validateDimensionID(in.PositionID, ErrInvalidPositionID); err != nil {
		return nil, err
	}

	status := StatusActive
	if in.Status != nil {
		status = *in.Status
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &Employee{
		FullName:     fullName,
		Email:        &email,
		Gender:       gender,
		PhoneNumber:  phone,
		DateOfBirth:  dob,
		HireDate:     hired,
		DepartmentID: cloneID(in.DepartmentID),
		PositionID:   cloneID(in.PositionID),
		Status:       status,
	}, nil
}

func (s *Service) validateDates(dob, hired time.Time) error {
	if dob.After(s.clock.Now()) {
		return ErrInvalidDateOfBirth
	}
	if hired.Before(dob) {
		return ErrInvalidHireDate
	}
	return nil
}

type updatePatch struct {
	fullName        *string
	email           *string
	gender          *string
	phone           *string
	dateOfBirth     *time.Time
	hireDate        *time.Time
	departmentID    *int64
	departmentIDSet bool
	positionID      *int64
	positionIDSet   bool
	status          *Status
}

func (s *Service) normalizeUpdate(in UpdateEmployeeInput) (*updatePatch, error) {
	p := &updatePatch{
		departmentIDSet: in.DepartmentIDSet || in.DepartmentID != nil,
		positionIDSet:   in.PositionIDSet || in.PositionID != nil,
	}
	if in.FullName != nil {
		v, err := normalizeFullName(*in.FullName)
		if err != nil {
			return nil, err
		}
		p.fullName = &v
	}
	if in.Email != nil {
		v, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		p.email = &v
	}
	if in.Gender != nil {
		v, err := normalizeGender(*in.Gender)
		if err != nil {
			return nil, err
		}
		p.gender = &v
	}
	if in.PhoneNumber != nil {
		v, err := normalizePhoneNumber(*in.PhoneNumber)
		if err != nil {
			return nil, err
		}
		p.phone = &v
	}
	if in.DateOfBirth != nil {
		if in.DateOfBirth.IsZero() {
			return nil, ErrInvalidDateOfBirth
		}
		v := normalizeDate(*in.DateOfBirth)
		p.dateOfBirth = &v
	}
	if in.HireDate != nil {
		if in.HireDate.IsZero() {
			return nil, ErrInvalidHireDate
		}
		v := normalizeDate(*in.HireDate)
		p.hireDate = &v
	}
	if err := validateDimensionID(in.DepartmentID, ErrInvalidDepartmentID); err != nil {
		return nil, err
	}
	p.departmentID = cloneID(in.DepartmentID)
	if err := validateDimensionID(in.PositionID, ErrInvalidPositionID); err != nil {
		return nil, err
	}
	p.positionID = cloneID(in.PositionID)
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		v := *in.Status
		p.status = &v
	}
	return p, nil
}

// changeSet は更新で実際に変化したフィールドを記録します。
type changeSet struct {
	fullName   bool
	email      bool
	other      bool
	phone      bool
	department bool
	position   bool
	status     bool
}

func (c changeSet) any() bool {
	return c.fullName || c.email || c.other || c.phone || c.department || c.position || c.status
}

func (c changeSet) dimensions() bool {
	return c.department || c.position
}

func (c changeSet) payroll() bool {
	return c.fullName || c.dimensions() || c.status
}

func (c changeSet) identity() bool {
	return c.fullName || c.email || c.phone || c.dimensions()
}

// apply は e を書き換え、変化したフィールドを返します。
func (p *updatePatch) apply(e *Employee) changeSet {
	var c changeSet
	if p.fullName != nil && *p.fullName != e.FullName {
		e.FullName = *p.fullName
		c.fullName = true
	}
	if p.email != nil && *p.email != e.EmailAddress() {
		v := *p.email
		e.Email = &v
		c.email = true
	}
	if p.gender != nil && *p.gender != e.Gender {
		e.Gender = *p.gender
		c.other = true
	}
	if p.phone != nil && *p.phone != e.PhoneNumber {
		e.PhoneNumber = *p.phone
		c.phone = true
	}
	if p.dateOfBirth != nil && !p.dateOfBirth.Equal(e.DateOfBirth) {
		e.DateOfBirth = *p.dateOfBirth
		c.other = true
	}
	if p.hireDate != nil && !p.hireDate.Equal(e.HireDate) {
		e.HireDate = *p.hireDate
		c.other = true
	}
	if p.departmentIDSet && !sameID(p.departmentID, e.DepartmentID) {
		e.DepartmentID = cloneID(p.departmentID)
		e.Department = nil
		c.department = true
	}
	if p.positionIDSet && !sameID(p.positionID, e.PositionID) {
		e.PositionID = cloneID(p.positionID)
		e.Position = nil
		c.position = true
	}
	if p.status != nil && *p.status != e.Status {
		e.Status = *p.status
		c.status = true
	}
	return c
}

func normalizeFullName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > maxFullNameLength {
		return "", ErrInvalidFullName
	}
	return name, nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}

func normalizeGender(raw string) (string, error) {
	gender := strings.TrimSpace(raw)
	if utf8.RuneCountInString(gender) > maxGenderLength {
		return "", ErrInvalidGender
	}
	return gender, nil
}

func normalizePhoneNumber(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return "", nil
	}
	if !phoneNumberPattern.MatchString(phone) {
		return "", ErrInvalidPhoneNumber
	}
	return phone, nil
}

func validatePassword(plain string) error {
	if utf8.RuneCountInString(plain) < minPasswordLength || len(plain) > maxPasswordBytes {
		return ErrInvalidPassword
	}
	return nil
}

func validateDimensionID(id *int64, invalid error) error {
	if id != nil && *id <= 0 {
		return invalid
	}
	return nil
}

func normalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
