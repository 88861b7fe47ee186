package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-sync/internal/core/dimension"
	pgdb "github.com/ogurasousui/hr-sync/internal/platform/db/postgres"
)

// DimensionRepository は部署・役職を PostgreSQL に永続化します。
// HR と Payroll は同じテーブル構成を持つため、ストア名を指定して使い分けます。
type DimensionRepository struct {
	pool  pgdb.Queryer
	store string
}

// NewHRDimensionRepository は HR ストア用の DimensionRepository を生成します。
func NewHRDimensionRepository(pool pgdb.Queryer) *DimensionRepository {
	return &DimensionRepository{pool: pool, store: hrStore}
}

// NewPayrollDimensionRepository は Payroll ストア用の DimensionRepository を生成します。
func NewPayrollDimensionRepository(pool pgdb.Queryer) *DimensionRepository {
	return &DimensionRepository{pool: pool, store: payrollStore}
}

// Create は採番した ID で部署・役職を作成します。
func (r *DimensionRepository) Create(ctx context.Context, kind dimension.Kind, name string) (*dimension.Ref, error) {
	table, _, err := dimensionTable(kind)
	if err != nil {
		return nil, err
	}
	exec := pgdb.QueryerFromContext(ctx, r.store, r.pool)
	row := exec.QueryRow(ctx, `INSERT INTO `+table+` (name) VALUES ($1) RETURNING id, name`, name)
	return scanRef(kind, row)
}

// InsertIfAbsent は同じ ID の行が無ければ挿入します。既存行は変更しません。
func (r *DimensionRepository) InsertIfAbsent(ctx context.Context, ref dimension.Ref) (bool, error) {
	table, _, err := dimensionTable(ref.Kind)
	if err != nil {
		return false, err
	}
	exec := pgdb.QueryerFromContext(ctx, r.store, r.pool)
	tag, err := exec.Exec(ctx, `INSERT INTO `+table+` (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, ref.ID, ref.Name)
	if err != nil {
		return false, translateDimensionPgError(err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateName は名称を更新します。
func (r *DimensionRepository) UpdateName(ctx context.Context, ref dimension.Ref) (*dimension.Ref, error) {
	table, _, err := dimensionTable(ref.Kind)
	if err != nil {
		return nil, err
	}
	exec := pgdb.QueryerFromContext(ctx, r.store, r.pool)
	row := exec.QueryRow(ctx, `UPDATE `+table+` SET name = $1 WHERE id = $2 RETURNING id, name`, ref.Name, ref.ID)
	return scanRef(ref.Kind, row)
}

// Delete は部署・役職を削除します。
func (r *DimensionRepository) Delete(ctx context.Context, kind dimension.Kind, id int64) error {
	table, _, err := dimensionTable(kind)
	if err != nil {
		return err
	}
	exec := pgdb.QueryerFromContext(ctx, r.store, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return translateDimensionPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return dimension.ErrNotFound
	}
	return nil
}

// FindByID は ID で部署・役職を取得します。
func (r *DimensionRepository) FindByID(ctx context.Context, kind dimension.Kind, id int64) (*dimension.Ref, error) {
	table, _, err := dimensionTable(kind)
	if err != nil {
		return nil, err
	}
	exec := pgdb.QueryerFromContext(ctx, r.store, r.pool)
	row := exec.QueryRow(ctx, `SELECT id, name FROM `+table+` WHERE id = $1 LIMIT 1`, id)
	return scanRef(kind, row)
}

// List は ID 順に一覧を返します。
func (r *DimensionRepository) List(ctx context.Context, kind dimension.Kind) ([]*dimension.Ref, error) {
	table, _, err := dimensionTable(kind)
	if err != nil {
		return nil, err
	}
	exec := pgdb.QueryerFromContext(ctx, r.store, r.pool)
	rows, err := exec.Query(ctx, `SELECT id, name FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, translateDimensionPgError(err)
	}
	defer rows.Close()

	refs := make([]*dimension.Ref, 0)
	for rows.Next() {
		ref, err := scanRef(kind, rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, translateDimensionPgError(err)
	}
	return refs, nil
}

// CountEmployees は部署・役職を参照している社員数を返します。
func (r *DimensionRepository) CountEmployees(ctx context.Context, kind dimension.Kind, id int64) (int, error) {
	_, column, err := dimensionTable(kind)
	if err != nil {
		return 0, err
	}
	exec := pgdb.QueryerFromContext(ctx, r.store, r.pool)
	var count int64
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE `+column+` = $1`, id).Scan(&count); err != nil {
		return 0, translateDimensionPgError(err)
	}
	return int(count), nil
}

// dimensionTable は種類に対応するテーブル名と employees 側の参照列を返します。
func dimensionTable(kind dimension.Kind) (table, column string, err error) {
	switch kind {
	case dimension.KindDepartment:
		return "departments", "department_id", nil
	case dimension.KindPosition:
		return "positions", "position_id", nil
	default:
		return "", "", fmt.Errorf("%w: %q", dimension.ErrInvalidKind, kind)
	}
}

func scanRef(kind dimension.Kind, row pgx.Row) (*dimension.Ref, error) {
	ref := &dimension.Ref{Kind: kind}
	if err := row.Scan(&ref.ID, &ref.Name); err != nil {
		return nil, translateDimensionPgError(err)
	}
	return ref, nil
}

func translateDimensionPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return dimension.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
		return dimension.ErrInUse
	}
	return err
}
