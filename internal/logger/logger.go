package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxLogSize = 10 * 1024 * 1024

var (
	debugLog *os.File
	logPath  string
	sugar    = zap.NewNop().Sugar()
)

// Init initializes the debug logger under dir. An empty dir means
// ~/.riddle-lobby. The terminal belongs to the UI, so nothing is written
// to stdout or stderr.
func Init(dir string, debugLevel bool, fields ...any) error {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".riddle-lobby")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create or append to debug.log
	logPath = filepath.Join(dir, "debug.log")
	var err error
	debugLog, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Rotate if file is too large
	if info, err := debugLog.Stat(); err == nil && info.Size() > maxLogSize {
		_ = debugLog.Close()
		backupPath := filepath.Join(dir, fmt.Sprintf("debug.log.%d", time.Now().Unix()))
		_ = os.Rename(logPath, backupPath)
		debugLog, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create new log file: %w", err)
		}
	}

	level := zapcore.InfoLevel
	if debugLevel {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(debugLog), level)
	sugar = zap.New(core, zap.AddCaller()).Sugar().With(fields...)

	LogInfo("Logger initialized, log file: %s", logPath)
	return nil
}

// L returns the process logger. Before Init it discards everything.
func L() *zap.SugaredLogger {
	return sugar
}

// Close flushes and closes the debug log file
func Close() {
	_ = sugar.Sync()
	sugar = zap.NewNop().Sugar()
	if debugLog != nil {
		_ = debugLog.Close()
		debugLog = nil
	}
}

// LogInfo logs an info message
func LogInfo(format string, args ...any) {
	sugar.Infof(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...any) {
	sugar.Errorf(format, args...)
}

// LogPanic logs a panic with stack trace
func LogPanic(r any) {
	sugar.Errorw("panic recovered", "panic", r, "stack", string(debug.Stack()))
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	return logPath
}
