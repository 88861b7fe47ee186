package handler

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	"github.com/ogurasousui/hr-sync/internal/core/saga"
	"google.golang.org/protobuf/types/known/structpb"
)

const dateLayout = "2006-01-02"

// fieldError はリクエストの形式が不正な場合のエラーです。InvalidArgument に変換されます。
type fieldError struct {
	field string
	msg   string
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.msg
}

func lookup(req *structpb.Struct, name string) (*structpb.Value, bool) {
	if req == nil {
		return nil, false
	}
	v, ok := req.GetFields()[name]
	return v, ok
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok || v.GetKind() == nil
}

func stringField(req *structpb.Struct, name string) (*string, error) {
	v, ok := lookup(req, name)
	if !ok || isNull(v) {
		return nil, nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil, &fieldError{field: name, msg: "must be a string"}
	}
	out := s.StringValue
	return &out, nil
}

func requiredString(req *structpb.Struct, name string) (string, error) {
	s, err := stringField(req, name)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}

// int64Field は数値フィールドを読み取ります。set はキーが存在したか (null を含む) を表します。
func int64Field(req *structpb.Struct, name string) (value *int64, set bool, err error) {
	v, ok := lookup(req, name)
	if !ok {
		return nil, false, nil
	}
	if isNull(v) {
		return nil, true, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, true, &fieldError{field: name, msg: "must be a number"}
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, true, &fieldError{field: name, msg: "must be an integer"}
	}
	out := int64(f)
	return &out, true, nil
}

func requiredID(req *structpb.Struct, name string) (int64, error) {
	id, _, err := int64Field(req, name)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, &fieldError{field: name, msg: "is required"}
	}
	return *id, nil
}

func dateField(req *structpb.Struct, name string) (*time.Time, error) {
	s, err := stringField(req, name)
	if err != nil || s == nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, trimmed, time.UTC)
	if err != nil {
		return nil, &fieldError{field: name, msg: "invalid format, expected YYYY-MM-DD"}
	}
	return &t, nil
}

func statusField(req *structpb.Struct) (*employee.Status, error) {
	s, err := stringField(req, "status")
	if err != nil || s == nil {
		return nil, err
	}
	status := employee.Status(strings.TrimSpace(*s))
	return &status, nil
}

func employeeValue(e *employee.Employee) map[string]any {
	out := map[string]any{
		"id":            e.ID,
		"full_name":     e.FullName,
		"email":         nil,
		"gender":        e.Gender,
		"phone_number":  e.PhoneNumber,
		"date_of_birth": e.DateOfBirth.Format(dateLayout),
		"hire_date":     e.HireDate.Format(dateLayout),
		"department":    refValue(e.Department, e.DepartmentID),
		"position":      refValue(e.Position, e.PositionID),
		"status":        string(e.Status),
	}
	if e.Email != nil {
		out["email"] = *e.Email
	}
	return out
}

func refValue(ref *dimension.Ref, id *int64) any {
	switch {
	case ref != nil:
		return map[string]any{"id": ref.ID, "name": ref.Name}
	case id != nil:
		return map[string]any{"id": *id}
	default:
		return nil
	}
}

func syncedValue(s *employee.Synced) map[string]any {
	out := map[string]any{
		"employee":   employeeValue(s.Employee),
		"role":       string(s.Role),
		"account_id": nil,
	}
	if s.AccountID != nil {
		out["account_id"] = *s.AccountID
	}
	return out
}

func warningsValue(warnings []saga.SyncWarning) []any {
	out := make([]any, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, map[string]any{"store": string(w.Store), "message": w.Cause.Error()})
	}
	return out
}

func dimensionValue(ref *dimension.Ref) map[string]any {
	return map[string]any{"kind": string(ref.Kind), "id": ref.ID, "name": ref.Name}
}

func toStruct(v map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(v)
	if err != nil {
		return nil, fmt.Errorf("handler: encode response: %w", err)
	}
	return s, nil
}
