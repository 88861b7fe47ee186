package dimension

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ogurasousui/hr-sync/internal/core/saga"
	"github.com/rs/zerolog"
)

const maxNameLength = 100

// UseCase は部署・役職ユースケースの公開インターフェースです。
type UseCase interface {
	Create(ctx context.Context, in CreateInput) (*Ref, error)
	Update(ctx context.Context, in UpdateInput) (*Ref, []saga.SyncWarning, error)
	Delete(ctx context.Context, in DeleteInput) error
	Get(ctx context.Context, kind Kind, id int64) (*Ref, error)
	List(ctx context.Context, kind Kind) ([]*Ref, error)
}

// Dependencies は Service の依存関係です。
type Dependencies struct {
	HR        HRRepository
	Payroll   PayrollRepository
	HRTx      TransactionManager
	PayrollTx TransactionManager
	Logger    zerolog.Logger
}

// Service は部署・役職を HR と Payroll の両ストアで同期させます。
type Service struct {
	hr        HRRepository
	payroll   PayrollRepository
	hrTx      TransactionManager
	payrollTx TransactionManager
	mirror    *Mirror
	logger    zerolog.Logger
}

// NewService は Service を生成します。
func NewService(deps Dependencies) *Service {
	if deps.HRTx == nil {
		deps.HRTx = noopTransactionManager{}
	}
	if deps.PayrollTx == nil {
		deps.PayrollTx = noopTransactionManager{}
	}
	return &Service{
		hr:        deps.HR,
		payroll:   deps.Payroll,
		hrTx:      deps.HRTx,
		payrollTx: deps.PayrollTx,
		mirror:    NewMirror(deps.Payroll),
		logger:    deps.Logger,
	}
}

// Mirror は Service が使う Mirror を返します。
func (s *Service) Mirror() *Mirror {
	return s.mirror
}

// CreateInput は部署・役職作成時の入力です。
type CreateInput struct {
	Kind Kind
	Name string
}

// UpdateInput は部署・役職の名称変更時の入力です。
type UpdateInput struct {
	Kind Kind
	ID   int64
	Name string
}

// DeleteInput は部署・役職削除時の入力です。
type DeleteInput struct {
	Kind Kind
	ID   int64
}

// Create は HR に作成した後 Payroll に複製します。複製に失敗した場合は HR の行を削除して戻します。
func (s *Service) Create(ctx context.Context, in CreateInput) (*Ref, error) {
	if !in.Kind.IsValid() {
		return nil, ErrInvalidKind
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	var created *Ref
	if err := s.hrTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		ref, err := s.hr.Create(txCtx, in.Kind, name)
		if err != nil {
			return err
		}
		created = ref
		return nil
	}); err != nil {
		return nil, &saga.WriteError{Op: saga.OpCreate, Store: saga.StoreHR, Cause: err}
	}

	comp := saga.NewCompensator(s.logger)
	comp.Push(saga.StoreHR, "delete "+string(in.Kind), func(ctx context.Context) error {
		return s.hrTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
			return s.hr.Delete(txCtx, created.Kind, created.ID)
		})
	})

	if err := s.payrollTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.mirror.Ensure(txCtx, *created)
	}); err != nil {
		return nil, comp.Abort(ctx, saga.StorePayroll, err)
	}

	s.logger.Info().Str("kind", string(created.Kind)).Int64("id", created.ID).Msg("dimension created")
	return created, nil
}

// Update は HR の名称を更新し、Payroll へはベストエフォートで反映します。
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Ref, []saga.SyncWarning, error) {
	if !in.Kind.IsValid() {
		return nil, nil, ErrInvalidKind
	}
	if in.ID <= 0 {
		return nil, nil, ErrInvalidID
	}
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, nil, err
	}

	var updated *Ref
	if err := s.hrTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if _, err := s.hr.FindByID(txCtx, in.Kind, in.ID); err != nil {
			return err
		}
		ref, err := s.hr.UpdateName(txCtx, Ref{Kind: in.Kind, ID: in.ID, Name: name})
		if err != nil {
			return err
		}
		updated = ref
		return nil
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, &saga.WriteError{Op: saga.OpUpdate, Store: saga.StoreHR, Cause: err}
	}

	var warnings []saga.SyncWarning
	if err := s.payrollTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		_, err := s.payroll.UpdateName(txCtx, *updated)
		if errors.Is(err, ErrNotFound) {
			return s.mirror.Ensure(txCtx, *updated)
		}
		return err
	}); err != nil {
		w := saga.SyncWarning{Store: saga.StorePayroll, Cause: err}
		s.logger.Warn().Err(err).Str("kind", string(in.Kind)).Int64("id", in.ID).Msg("dimension propagation failed")
		warnings = append(warnings, w)
	}

	return updated, warnings, nil
}

// Delete は社員から参照されていない部署・役職を Payroll、HR の順に削除します。
// HR の削除に失敗しても Payroll の削除は巻き戻しません。
func (s *Service) Delete(ctx context.Context, in DeleteInput) error {
	if !in.Kind.IsValid() {
		return ErrInvalidKind
	}
	if in.ID <= 0 {
		return ErrInvalidID
	}

	if err := s.hrTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		if _, err := s.hr.FindByID(txCtx, in.Kind, in.ID); err != nil {
			return err
		}
		n, err := s.hr.CountEmployees(txCtx, in.Kind, in.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrInUse
		}
		return nil
	}); err != nil {
		return err
	}

	if err := s.payrollTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		err := s.payroll.Delete(txCtx, in.Kind, in.ID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}); err != nil {
		return s.partialFailure(in, saga.StorePayroll, nil, err)
	}

	if err := s.hrTx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.hr.Delete(txCtx, in.Kind, in.ID)
	}); err != nil {
		return s.partialFailure(in, saga.StoreHR, []saga.Store{saga.StorePayroll}, err)
	}

	return nil
}

// Get は HR ストアから部署・役職を取得します。
func (s *Service) Get(ctx context.Context, kind Kind, id int64) (*Ref, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var found *Ref
	if err := s.hrTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		ref, err := s.hr.FindByID(txCtx, kind, id)
		if err != nil {
			return err
		}
		found = ref
		return nil
	}); err != nil {
		return nil, err
	}
	return found, nil
}

// List は HR ストアの部署・役職を ID 順に返します。
func (s *Service) List(ctx context.Context, kind Kind) ([]*Ref, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	var refs []*Ref
	if err := s.hrTx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.hr.List(txCtx, kind)
		if err != nil {
			return err
		}
		refs = found
		return nil
	}); err != nil {
		return nil, err
	}
	return refs, nil
}

func (s *Service) partialFailure(in DeleteInput, failedAt saga.Store, completed []saga.Store, cause error) error {
	if len(completed) == 0 {
		s.logger.Error().Err(cause).Str("kind", string(in.Kind)).Int64("id", in.ID).Msg("dimension delete failed")
		return &saga.WriteError{Op: saga.OpDelete, Store: failedAt, Cause: cause}
	}
	pf := &saga.PartialFailure{Op: saga.OpDelete, FailedAt: failedAt, Completed: completed, Cause: cause}
	s.logger.Error().
		Err(cause).
		Str("kind", string(in.Kind)).
		Int64("id", in.ID).
		Str("failed_at", string(failedAt)).
		Msg("dimension delete partially applied")
	return pf
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
