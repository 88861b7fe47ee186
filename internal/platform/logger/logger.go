package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ogurasousui/hr-sync/internal/platform/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New は設定から zerolog.Logger を構築し、zerolog/log のグローバルロガーにも設定します。
// 返却される close 関数はログファイルを開いた場合にそれを閉じます。
func New(cfg config.LogConfig) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logger: parse level %q: %w", cfg.Level, err)
	}

	var console io.Writer = os.Stdout
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	writers := []io.Writer{console}
	closeFn := func() error { return nil }

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("logger: open %s: %w", cfg.File, err)
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", "hrsync").
		Logger()

	log.Logger = l
	return l, closeFn, nil
}

// FromContext はコンテキストのロガーを返します。未設定の場合はグローバルロガーを返します。
func FromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}

// With は fields を付与したロガーをコンテキストに格納します。
func With(ctx context.Context, fields map[string]any) context.Context {
	l := FromContext(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}
