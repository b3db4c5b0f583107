package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger carrying run and component fields
type Logger struct {
	logger zerolog.Logger
}

// Default is the process-wide logger, set up by Init
var Default *Logger

// Init configures the level from LOG_LEVEL or WATCHER_ENVIRONMENT and
// points Default at a console writer on stdout.
func Init() {
	level := levelFromEnv()
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)

	Default = New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	Default.Debug().Str("level", level.String()).Msg("Logger initialized")
}

// New creates a logger writing JSON lines to w
func New(w io.Writer) *Logger {
	return &Logger{logger: zerolog.New(w).With().Timestamp().Logger()}
}

func levelFromEnv() zerolog.Level {
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		level, err := zerolog.ParseLevel(s)
		if err != nil {
			return zerolog.InfoLevel
		}
		return level
	}
	if os.Getenv("WATCHER_ENVIRONMENT") == "production" {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

func std() *Logger {
	if Default == nil {
		Init()
	}
	return Default
}

// WithField returns a child logger tagged with key=value
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// WithError returns a child logger carrying err
func (l *Logger) WithError(err error) *Logger {
	return &Logger{logger: l.logger.With().Err(err).Logger()}
}

func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }

// Debug logs a formatted line on the default logger
func Debug(format string, v ...interface{}) { std().Debug().Msgf(format, v...) }

// Info logs a formatted line on the default logger
func Info(format string, v ...interface{}) { std().Info().Msgf(format, v...) }

// Warn logs a formatted line on the default logger
func Warn(format string, v ...interface{}) { std().Warn().Msgf(format, v...) }

// Error logs a formatted line on the default logger
func Error(format string, v ...interface{}) { std().Error().Msgf(format, v...) }

// IsDebugEnabled reports whether debug lines would be written
func IsDebugEnabled() bool {
	return std().logger.GetLevel() <= zerolog.DebugLevel && zerolog.GlobalLevel() <= zerolog.DebugLevel
}

// ForJob tags lines with the watch job name
func ForJob(name string) *Logger {
	return std().WithField("job", name)
}

// ForComponent tags lines with the subsystem that wrote them
// (fetcher, worker, notifier, cache).
func ForComponent(name string) *Logger {
	return std().WithField("component", name)
}

// LogError logs err for a component with a formatted message
func LogError(component string, err error, format string, v ...interface{}) {
	std().Error().Str("component", component).Err(err).Msgf(format, v...)
}
