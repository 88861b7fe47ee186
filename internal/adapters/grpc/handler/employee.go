package handler

import (
	"context"

	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// SyncHandler は EmployeeSyncService の gRPC 実装です。
type SyncHandler struct {
	employees  employee.UseCase
	dimensions dimension.UseCase
	logger     zerolog.Logger
}

var _ EmployeeSyncServer = (*SyncHandler)(nil)

// NewSyncHandler は SyncHandler を生成します。
func NewSyncHandler(employees employee.UseCase, dimensions dimension.UseCase, logger zerolog.Logger) *SyncHandler {
	return &SyncHandler{employees: employees, dimensions: dimensions, logger: logger}
}

// CreateEmployee は社員を 3 ストアに作成します。
func (h *SyncHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := decodeCreateEmployee(req)
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	created, err := h.employees.CreateEmployee(ctx, in)
	if err != nil {
		return nil, h.statusError(ctx, err)
	}
	return toStruct(syncedValue(created))
}

// GetEmployee は社員を取得します。
func (h *SyncHandler) GetEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req, "id")
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	found, err := h.employees.GetEmployee(ctx, employee.GetEmployeeInput{ID: id})
	if err != nil {
		return nil, h.statusError(ctx, err)
	}
	return toStruct(syncedValue(found))
}

// UpdateEmployee は社員を更新します。反映に失敗したストアは warnings に含めて返します。
func (h *SyncHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := decodeUpdateEmployee(req)
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	updated, warnings, err := h.employees.UpdateEmployee(ctx, in)
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	out := syncedValue(updated)
	out["warnings"] = warningsValue(warnings)
	return toStruct(out)
}

// DeleteEmployee は社員を 3 ストアから削除します。
func (h *SyncHandler) DeleteEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requiredID(req, "id")
	if err != nil {
		return nil, h.statusError(ctx, err)
	}

	if err := h.employees.DeleteEmployee(ctx, employee.DeleteEmployeeInput{ID: id}); err != nil {
		return nil, h.statusError(ctx, err)
	}
	return &structpb.Struct{}, nil
}

func decodeCreateEmployee(req *structpb.Struct) (employee.CreateEmployeeInput, error) {
	var (
		in  employee.CreateEmployeeInput
		err error
	)
	if in.FullName, err = requiredString(req, "full_name"); err != nil {
		return in, err
	}
	if in.Email, err = requiredString(req, "email"); err != nil {
		return in, err
	}
	if in.Password, err = requiredString(req, "password"); err != nil {
		return in, err
	}
	if in.Gender, err = requiredString(req, "gender"); err != nil {
		return in, err
	}
	if in.PhoneNumber, err = requiredString(req, "phone_number"); err != nil {
		return in, err
	}

	dob, err := dateField(req, "date_of_birth")
	if err != nil {
		return in, err
	}
	if dob != nil {
		in.DateOfBirth = *dob
	}
	hired, err := dateField(req, "hire_date")
	if err != nil {
		return in, err
	}
	if hired != nil {
		in.HireDate = *hired
	}

	if in.DepartmentID, _, err = int64Field(req, "department_id"); err != nil {
		return in, err
	}
	if in.PositionID, _, err = int64Field(req, "position_id"); err != nil {
		return in, err
	}
	if in.Status, err = statusField(req); err != nil {
		return in, err
	}
	return in, nil
}

func decodeUpdateEmployee(req *structpb.Struct) (employee.UpdateEmployeeInput, error) {
	var (
		in  employee.UpdateEmployeeInput
		err error
	)
	if in.ID, err = requiredID(req, "id"); err != nil {
		return in, err
	}
	if in.FullName, err = stringField(req, "full_name"); err != nil {
		return in, err
	}
	if in.Email, err = stringField(req, "email"); err != nil {
		return in, err
	}
	if in.Gender, err = stringField(req, "gender"); err != nil {
		return in, err
	}
	if in.PhoneNumber, err = stringField(req, "phone_number"); err != nil {
		return in, err
	}
	if in.DateOfBirth, err = dateField(req, "date_of_birth"); err != nil {
		return in, err
	}
	if in.HireDate, err = dateField(req, "hire_date"); err != nil {
		return in, err
	}
	if in.DepartmentID, in.DepartmentIDSet, err = int64Field(req, "department_id"); err != nil {
		return in, err
	}
	if in.PositionID, in.PositionIDSet, err = int64Field(req, "position_id"); err != nil {
		return in, err
	}
	if in.Status, err = statusField(req); err != nil {
		return in, err
	}
	return in, nil
}

// statusError はエラーを gRPC ステータスに変換します。Internal になるものは原因をログに残します。
func (h *SyncHandler) statusError(ctx context.Context, err error) error {
	st := toStatusError(err)
	if status.Code(st) == codes.Internal {
		l := zerolog.Ctx(ctx)
		if l.GetLevel() == zerolog.Disabled {
			l = &h.logger
		}
		l.Error().Err(err).Msg("request failed")
	}
	return st
}
