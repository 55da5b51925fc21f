// Package logging 建立 zerolog logger
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New 建立 logger，開發模式輸出易讀格式
func New(dev bool, level string) zerolog.Logger {
	return NewWithWriter(os.Stderr, dev, level)
}

// NewWithWriter 同 New，可指定輸出位置
func NewWithWriter(w io.Writer, dev bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if dev {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
