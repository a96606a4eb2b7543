package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
)

const (
	logFileName = "server.log"
	maxLogSize  = 10 * 1024 * 1024
)

var (
	logFile *os.File
	logPath string
)

// Init 初始化日志：同时写入 dir/server.log 和标准输出。
// dir 为空时使用 ~/.secret-hitler
func Init(dir string) error {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".secret-hitler")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath = filepath.Join(dir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		backupPath := filepath.Join(dir, fmt.Sprintf("%s.%d", logFileName, time.Now().Unix()))
		_ = os.Rename(logPath, backupPath)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	SetOutput(io.MultiWriter(os.Stdout, logFile))
	LogInfo("Logger initialized, log file: %s", logPath)
	return nil
}

// SetOutput 重定向日志输出（测试中使用）
func SetOutput(w io.Writer) {
	log.SetOutput(w)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
}

// Close closes the log file
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// LogInfo logs an info message
func LogInfo(format string, args ...any) {
	_ = log.Output(2, fmt.Sprintf("[INFO] "+format, args...))
}

// LogWarn logs a warning
func LogWarn(format string, args ...any) {
	_ = log.Output(2, fmt.Sprintf("[WARN] "+format, args...))
}

// LogError logs an error message
func LogError(format string, args ...any) {
	_ = log.Output(2, fmt.Sprintf("[ERROR] "+format, args...))
}

// LogPanic logs a panic with stack trace
func LogPanic(r any) {
	_ = log.Output(2, fmt.Sprintf("[PANIC] %v\n%s", r, debug.Stack()))
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	return logPath
}
