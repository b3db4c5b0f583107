package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/roccohia/labubu-watcher/logger"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(target string, err error)
	LogInfo(format string, args ...interface{})
}

// Logger journals failed runs to a file and narrates the rest to the console
type Logger struct {
	errorFile string
	mu        sync.Mutex
}

// NewLogger creates a new logger instance
func NewLogger(errorFile string) *Logger {
	return &Logger{
		errorFile: errorFile,
	}
}

// LogError appends an error line with target name and timestamp to the error file
func (l *Logger) LogError(target string, err error) {
	logger.LogError("journal", err, "%s failed", target)
	if l.errorFile == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, fileErr := os.OpenFile(l.errorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		logger.Warn("cannot open error journal %s: %v", l.errorFile, fileErr)
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] [%s] %s\n", timestamp, target, err.Error())
}

// LogInfo logs an informational message
func (l *Logger) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
