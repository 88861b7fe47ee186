package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	"github.com/ogurasousui/hr-sync/internal/core/employee"
	"github.com/ogurasousui/hr-sync/internal/core/saga"
	pgdb "github.com/ogurasousui/hr-sync/internal/platform/db/postgres"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// ストア名はトランザクションマネージャの登録名と一致させます。
const (
	hrStore      = string(saga.StoreHR)
	payrollStore = string(saga.StorePayroll)
)

const hrEmployeeColumns = `e.id, e.full_name, e.email, e.gender, e.phone_number, e.date_of_birth, e.hire_date,
               e.department_id, e.position_id, e.status, d.name, p.name`

// EmployeeRepository は HR ストアの社員を PostgreSQL に永続化します。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を作成し、部署・役職を結合した行を返します。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, hrStore, r.pool)
	row := exec.QueryRow(ctx, `
        WITH e AS (
            INSERT INTO employees (full_name, email, gender, phone_number, date_of_birth, hire_date, department_id, position_id, status)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
            RETURNING id, full_name, email, gender, phone_number, date_of_birth, hire_date, department_id, position_id, status
        )
        SELECT `+hrEmployeeColumns+`
          FROM e
          LEFT JOIN departments d ON d.id = e.department_id
          LEFT JOIN positions p ON p.id = e.position_id
    `,
		e.FullName,
		nullableString(e.Email),
		e.Gender,
		e.PhoneNumber,
		dateOnly(e.DateOfBirth),
		dateOnly(e.HireDate),
		nullableID(e.DepartmentID),
		nullableID(e.PositionID),
		string(e.Status),
	)

	created, err := scanHREmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// Update は社員情報を更新し、部署・役職を結合した行を返します。
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, hrStore, r.pool)
	row := exec.QueryRow(ctx, `
        WITH e AS (
            UPDATE employees
               SET full_name = $1,
                   email = $2,
                   gender = $3,
                   phone_number = $4,
                   date_of_birth = $5,
                   hire_date = $6,
                   department_id = $7,
                   position_id = $8,
                   status = $9,
                   updated_at = now()
             WHERE id = $10
            RETURNING id, full_name, email, gender, phone_number, date_of_birth, hire_date, department_id, position_id, status
        )
        SELECT `+hrEmployeeColumns+`
          FROM e
          LEFT JOIN departments d ON d.id = e.department_id
          LEFT JOIN positions p ON p.id = e.position_id
    `,
		e.FullName,
		nullableString(e.Email),
		e.Gender,
		e.PhoneNumber,
		dateOnly(e.DateOfBirth),
		dateOnly(e.HireDate),
		nullableID(e.DepartmentID),
		nullableID(e.PositionID),
		string(e.Status),
		e.ID,
	)

	updated, err := scanHREmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return updated, nil
}

// Delete は社員を削除します。
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, hrStore, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return translateEmployeePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, hrStore, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+hrEmployeeColumns+`
          FROM employees e
          LEFT JOIN departments d ON d.id = e.department_id
          LEFT JOIN positions p ON p.id = e.position_id
         WHERE e.id = $1
         LIMIT 1
    `, id)

	found, err := scanHREmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレスで社員を取得します。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, hrStore, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+hrEmployeeColumns+`
          FROM employees e
          LEFT JOIN departments d ON d.id = e.department_id
          LEFT JOIN positions p ON p.id = e.position_id
         WHERE e.email = $1
         LIMIT 1
    `, email)

	found, err := scanHREmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

func scanHREmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id             int64
		fullName       string
		email          sql.NullString
		gender         string
		phoneNumber    string
		dateOfBirth    time.Time
		hireDate       time.Time
		departmentID   sql.NullInt64
		positionID     sql.NullInt64
		status         string
		departmentName sql.NullString
		positionName   sql.NullString
	)

	if err := row.Scan(
		&id,
		&fullName,
		&email,
		&gender,
		&phoneNumber,
		&dateOfBirth,
		&hireDate,
		&departmentID,
		&positionID,
		&status,
		&departmentName,
		&positionName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	e := &employee.Employee{
		ID:           id,
		FullName:     fullName,
		Gender:       gender,
		PhoneNumber:  phoneNumber,
		DateOfBirth:  dateOnly(dateOfBirth),
		HireDate:     dateOnly(hireDate),
		DepartmentID: idPtr(departmentID),
		PositionID:   idPtr(positionID),
		Status:       employee.Status(status),
		Department:   joinedRef(dimension.KindDepartment, departmentID, departmentName),
		Position:     joinedRef(dimension.KindPosition, positionID, positionName),
	}
	if email.Valid {
		v := email.String
		e.Email = &v
	}
	return e, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return employee.ErrDuplicateEmail
		case foreignKeyViolationCode:
			return employee.ErrUnknownDimension
		case checkViolationCode:
			return employee.ErrInvalidStatus
		}
	}

	return err
}

func joinedRef(kind dimension.Kind, id sql.NullInt64, name sql.NullString) *dimension.Ref {
	if !id.Valid || !name.Valid {
		return nil
	}
	return &dimension.Ref{Kind: kind, ID: id.Int64, Name: name.String}
}

func idPtr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func nullableID(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
