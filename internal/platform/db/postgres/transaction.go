package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// transactionContextKey はコンテキストにトランザクションを格納するためのキーです。
// ストアごとに別のキーを使い、あるストアのトランザクションが別ストアのリポジトリへ漏れないようにします。
type transactionContextKey struct {
	store string
}

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager は pgx を用いた 1 ストア分のトランザクション制御を提供します。
type TransactionManager struct {
	pool  txStarter
	store string
}

// NewTransactionManager は TransactionManager を生成します。
func NewTransactionManager(store string, pool txStarter) *TransactionManager {
	if pool == nil {
		return nil
	}
	return &TransactionManager{pool: pool, store: store}
}

// Store は管理対象のストア名を返します。
func (m *TransactionManager) Store() string {
	if m == nil {
		return ""
	}
	return m.store
}

// WithinReadOnly は読み取り専用トランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// WithinReadWrite は読み書きトランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
}

func (m *TransactionManager) within(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	if _, ok := txFromContext(ctx, m.store); ok {
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: %s: begin tx: %w", m.store, err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	txCtx := contextWithTx(ctx, m.store, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, fmt.Errorf("postgres: %s: rollback: %w", m.store, rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if !errors.Is(err, pgx.ErrTxClosed) {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				return errors.Join(fmt.Errorf("postgres: %s: commit: %w", m.store, err), fmt.Errorf("postgres: %s: rollback after commit failure: %w", m.store, rbErr))
			}
		}
		return fmt.Errorf("postgres: %s: commit: %w", m.store, err)
	}

	committed = true
	return nil
}

func contextWithTx(ctx context.Context, store string, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, transactionContextKey{store: store}, tx)
}

func txFromContext(ctx context.Context, store string) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(transactionContextKey{store: store}).(pgx.Tx)
	return tx, ok
}

// QueryerFromContext は store のトランザクションがコンテキストに存在すればそれを返し、存在しなければ fallback を返します。
func QueryerFromContext(ctx context.Context, store string, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx, store); ok {
		return tx
	}
	return fallback
}

// Queryer は pgx.Tx および pgxpool.Pool と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
