package handler

import (
	"errors"
	"fmt"

	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	"github.com/ogurasousui/hr-sync/internal/core/saga"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// preconditionType は削除を妨げる関連データを表す PreconditionFailure の種別です。
const preconditionType = "RELATED_DATA"

func toStatusError(err error) error {
	var (
		fieldErr *fieldError
		blocked  *employee.DeletionBlockedError
		partial  *saga.PartialFailure
		syncErr  *saga.SyncError
		writeErr *saga.WriteError
	)

	switch {
	case err == nil:
		return nil
	case errors.As(err, &blocked):
		return deletionBlockedStatus(blocked)
	case errors.As(err, &partial):
		return status.Errorf(codes.Internal, "%s partially applied, failed at %s", partial.Op, partial.FailedAt)
	case errors.As(err, &syncErr):
		if syncErr.Compensated() {
			return status.Errorf(codes.Unavailable, "sync to %s failed, changes were rolled back", syncErr.Store)
		}
		return status.Errorf(codes.Internal, "sync to %s failed and rollback was incomplete", syncErr.Store)
	case errors.As(err, &fieldErr),
		errors.Is(err, employee.ErrValidation),
		errors.Is(err, dimension.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrDuplicateEmail):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, employee.ErrAccountNotFound),
		errors.Is(err, dimension.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, dimension.ErrInUse):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.As(err, &writeErr):
		return status.Errorf(codes.Unavailable, "%s on %s failed", writeErr.Op, writeErr.Store)
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func deletionBlockedStatus(blocked *employee.DeletionBlockedError) error {
	st := status.New(codes.FailedPrecondition, blocked.Error())

	violations := make([]*errdetails.PreconditionFailure_Violation, 0, len(blocked.Blockers))
	for _, b := range blocked.Blockers {
		violations = append(violations, &errdetails.PreconditionFailure_Violation{
			Type:        preconditionType,
			Subject:     string(b.Kind),
			Description: blockerDescription(b),
		})
	}

	detailed, err := st.WithDetails(&errdetails.PreconditionFailure{Violations: violations})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

func blockerDescription(b employee.Blocker) string {
	switch b.Kind {
	case employee.ResourceActiveShareholding:
		return fmt.Sprintf("%d active holdings, %d shares", b.Count, b.Shares)
	default:
		return fmt.Sprintf("%d records, total %s", b.Count, b.Amount.StringFixed(2))
	}
}
