package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCompensationTimeout は補償処理全体に与える時間の既定値です。
const DefaultCompensationTimeout = 30 * time.Second

// UndoFunc はコミット済みのステップを取り消す補償処理です。
type UndoFunc func(ctx context.Context) error

type undoStep struct {
	store Store
	name  string
	undo  UndoFunc
}

// Compensator は補償処理のスタックです。
// 各ステップのコミット後に Push し、後続ステップの失敗時に Compensate で LIFO 順に実行します。
type Compensator struct {
	steps   []undoStep
	logger  zerolog.Logger
	timeout time.Duration
}

// NewCompensator は Compensator を生成します。
func NewCompensator(logger zerolog.Logger) *Compensator {
	return &Compensator{logger: logger, timeout: DefaultCompensationTimeout}
}

// WithTimeout は補償処理全体の制限時間を変更します。
func (c *Compensator) WithTimeout(d time.Duration) *Compensator {
	c.timeout = d
	return c
}

// Push は補償処理を積みます。
func (c *Compensator) Push(store Store, name string, undo UndoFunc) {
	c.steps = append(c.steps, undoStep{store: store, name: name, undo: undo})
}

// Len は未実行の補償処理の数を返します。
func (c *Compensator) Len() int {
	return len(c.steps)
}

// Compensate は積まれた補償処理を逆順にすべて実行し、スタックを空にします。
// 途中の補償が失敗しても残りは実行し、失敗をまとめて返します。
// 呼び出し元のキャンセルやデッドラインは引き継がず、独自の制限時間で実行します。
func (c *Compensator) Compensate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	var errs []error
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.undo(ctx); err != nil {
			c.logger.Error().
				Err(err).
				Str("store", string(step.store)).
				Str("step", step.name).
				Msg("compensation failed")
			errs = append(errs, fmt.Errorf("undo %s on %s: %w", step.name, step.store, err))
			continue
		}
		c.logger.Debug().
			Str("store", string(step.store)).
			Str("step", step.name).
			Msg("compensated")
	}
	c.steps = nil
	return errors.Join(errs...)
}

// Abort は補償を実行し、store での失敗を表す SyncError を返します。
func (c *Compensator) Abort(ctx context.Context, store Store, cause error) *SyncError {
	return &SyncError{Store: store, Cause: cause, RollbackErr: c.Compensate(ctx)}
}
