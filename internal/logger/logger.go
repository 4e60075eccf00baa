// Package logger はzerologベースのロガーを設定から組み立てます。
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"staticd/internal/config"
)

// New は設定に従ってロガーを作成する
// 不明なレベルは info として扱う
func New(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
