package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents a fetch whose attempts were all exhausted
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeNavigation represents browser launch and navigation errors
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeExtraction represents DOM evaluation and parsing errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeCookie represents an unreadable cookie store
	ErrorTypeCookie ErrorType = "cookie"
	// ErrorTypeNotification represents notification delivery errors
	ErrorTypeNotification ErrorType = "notification"
	// ErrorTypeLocked represents a target already being watched by another process
	ErrorTypeLocked ErrorType = "locked"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// WatchError represents a watcher-specific error
type WatchError struct {
	Type     ErrorType
	Target   string
	Message  string
	Attempts int
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *WatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Target, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Target, e.Message)
}

// Unwrap returns the underlying error
func (e *WatchError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if another fetch attempt may succeed
func (e *WatchError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNavigation, ErrorTypeExtraction:
		return true
	default:
		return false
	}
}

// New creates a new WatchError
func New(errType ErrorType, target, message string, err error) *WatchError {
	return &WatchError{
		Type:    errType,
		Target:  target,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates the error returned once every attempt for a target failed.
// err is the failure of the last attempt.
func NewFetch(target string, attempts int, err error) *WatchError {
	e := New(ErrorTypeFetch, target, fmt.Sprintf("all %d attempts failed", attempts), err)
	e.Attempts = attempts
	return e
}

// NewNavigation creates a new navigation error
func NewNavigation(target, message string, err error) *WatchError {
	return New(ErrorTypeNavigation, target, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(target, message string, err error) *WatchError {
	return New(ErrorTypeExtraction, target, message, err)
}

// NewCookie creates a new cookie store error
func NewCookie(path string, err error) *WatchError {
	return New(ErrorTypeCookie, path, "cannot load cookies", err)
}

// NewNotification creates a new notification error
func NewNotification(channel, message string, err error) *WatchError {
	return New(ErrorTypeNotification, channel, message, err)
}

// NewLocked creates a new locked error
func NewLocked(target string) *WatchError {
	return New(ErrorTypeLocked, target, "another run holds the lease", nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *WatchError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// Is reports whether any error in err's chain is a WatchError of the given type.
func Is(err error, errType ErrorType) bool {
	var we *WatchError
	for err != nil {
		if !stderrors.As(err, &we) {
			return false
		}
		if we.Type == errType {
			return true
		}
		err = we.Err
	}
	return false
}

// IsFetch reports whether err is an exhausted fetch.
func IsFetch(err error) bool {
	return Is(err, ErrorTypeFetch)
}

// IsRetryable reports whether err is a WatchError worth another attempt.
// Errors that are not WatchErrors are treated as transient.
func IsRetryable(err error) bool {
	var we *WatchError
	if stderrors.As(err, &we) {
		return we.IsRetryable()
	}
	return true
}
