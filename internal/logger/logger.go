// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// The server writes lifecycle and error events to one JSON log per day
// under `<base_dir>/logs/YYYY-MM-DD.log`.  When running in an interactive
// TTY the same events are teed to stdout in console format.  Verbosity
// comes from the `log_level` setting, which operators usually spell the
// Python way (`INFO`, `WARNING`, `CRITICAL`).
//
// Usage
// -----
//
//	log, err := logger.New(cfg.BaseDir, cfg.LogLevel, runningInTTY())
//	if err != nil { … }
//	log.Infow("server online", "addr", addr)
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Errors are written to the same sink via `ErrorOutput`.
// • An unknown level name falls back to info and is reported once.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a log_level setting onto a zap level.  ok is false for
// names it does not recognise, in which case info is returned.
func ParseLevel(name string) (lvl zapcore.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return zap.DebugLevel, true
	case "info", "":
		return zap.InfoLevel, true
	case "warn", "warning":
		return zap.WarnLevel, true
	case "error":
		return zap.ErrorLevel, true
	case "critical", "fatal":
		return zap.FatalLevel, true
	}
	return zap.InfoLevel, false
}

// New returns a *zap.SugaredLogger that writes JSON to <baseDir>/logs.
// When tee == true, a console core is also attached.  The logger is
// installed as the process-wide default via zap.ReplaceGlobals.
func New(baseDir, level string, tee bool) (*zap.SugaredLogger, error) {
	logDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileName := time.Now().Format("2006-01-02") + ".log"
	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, fileName),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}

	lvl, known := ParseLevel(level)
	atom := zap.NewAtomicLevelAt(lvl)

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), atom),
	}
	if tee {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			atom,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
		zap.AddCaller(),
	).Sugar()

	zap.ReplaceGlobals(z.Desugar())

	if !known {
		z.Warnw("unknown log level, using info", "log_level", level)
	}
	z.Infow("logger online", "tee", tee, "level", lvl.String())
	return z, nil
}
