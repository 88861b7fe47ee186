package dimension

import (
	"errors"
	"fmt"
)

// ErrValidation は入力値が不正な場合のエラーの基底です。
var ErrValidation = errors.New("dimension: validation failed")

var (
	ErrInvalidKind = fmt.Errorf("%w: invalid kind", ErrValidation)
	ErrInvalidID   = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidName = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrNotFound    = errors.New("dimension: not found")
	// ErrInUse は社員から参照されている部署・役職を削除しようとした場合に返却されます。
	ErrInUse = errors.New("dimension: referenced by employees")
)
