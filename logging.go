package stroketess

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a logger from cfg. Output goes to stderr, or to a
// rotating file when cfg.File is set. The returned closer releases the
// file and is a no-op for stderr.
func NewLogger(cfg LoggingConfig) (*slog.Logger, io.Closer, error) {
	lvl, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if f := strings.TrimSpace(cfg.File); f != "" {
		rot := &lj.Logger{Filename: f, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		w, closer = rot, rot
	}
	return newLoggerTo(w, cfg, lvl), closer, nil
}

func newLoggerTo(w io.Writer, cfg LoggingConfig, lvl slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lvl, AddSource: cfg.Source}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With(slog.String("component", "stroketess"))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
