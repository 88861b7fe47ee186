package employee

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation は入力値が不正な場合のエラーの基底です。
var ErrValidation = errors.New("employee: validation failed")

var (
	ErrInvalidID           = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidFullName     = fmt.Errorf("%w: invalid full name", ErrValidation)
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email", ErrValidation)
	ErrInvalidPassword     = fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	ErrInvalidGender       = fmt.Errorf("%w: invalid gender", ErrValidation)
	ErrInvalidPhoneNumber  = fmt.Errorf("%w: invalid phone number", ErrValidation)
	ErrInvalidDateOfBirth  = fmt.Errorf("%w: invalid date of birth", ErrValidation)
	ErrInvalidHireDate     = fmt.Errorf("%w: invalid hire date", ErrValidation)
	ErrInvalidDepartmentID = fmt.Errorf("%w: invalid department id", ErrValidation)
	ErrInvalidPositionID   = fmt.Errorf("%w: invalid position id", ErrValidation)
	ErrInvalidStatus       = fmt.Errorf("%w: invalid status", ErrValidation)
	// ErrUnknownDimension は存在しない部署・役職を参照した場合に返却されます。
	ErrUnknownDimension = fmt.Errorf("%w: unknown department or position", ErrValidation)
)

var (
	ErrEmployeeNotFound = errors.New("employee: not found")
	ErrAccountNotFound  = errors.New("employee: account not found")
	// ErrDuplicateEmail は HR または Identity で既に使われているメールアドレスの場合に返却されます。
	ErrDuplicateEmail = errors.New("employee: email already exists")
	// ErrMirrorMissing は Payroll に複製されているはずの社員行が無い場合に返却されます。
	ErrMirrorMissing = errors.New("employee: payroll mirror missing")
)

// DeletionBlockedError は履歴・持株が残っているため削除できないことを表します。
type DeletionBlockedError struct {
	Blockers Blockers
}

func (e *DeletionBlockedError) Error() string {
	kinds := make([]string, 0, len(e.Blockers))
	for _, k := range e.Blockers.Kinds() {
		kinds = append(kinds, string(k))
	}
	return "employee: deletion blocked by " + strings.Join(kinds, ", ")
}
