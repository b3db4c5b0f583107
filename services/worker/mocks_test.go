package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/roccohia/labubu-watcher/helpers"
	"github.com/roccohia/labubu-watcher/internal/crawler"
	"github.com/roccohia/labubu-watcher/logger"
	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
	"github.com/roccohia/labubu-watcher/services/notifier"
)

// MockFetcher returns canned records per target
type MockFetcher struct {
	mu      sync.Mutex
	records map[string][]crawler.Record
	errs    map[string]error
	calls   []string
}

// Ensure MockFetcher implements Fetcher
var _ Fetcher = (*MockFetcher)(nil)

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		records: make(map[string][]crawler.Record),
		errs:    make(map[string]error),
	}
}

func (m *MockFetcher) Fetch(_ context.Context, cfg crawler.FetchConfig, _ logger.Narrator) ([]crawler.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, cfg.Target)
	if err := m.errs[cfg.Target]; err != nil {
		return nil, err
	}
	return m.records[cfg.Target], nil
}

// MockNotifier records sent messages
type MockNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

// Ensure MockNotifier implements notifier.Notifier
var _ notifier.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Name() string { return "mock" }

func (m *MockNotifier) Send(_ context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return m.err
}

// MockNarrator records narration
type MockNarrator struct {
	mu        sync.Mutex
	infos     []string
	successes []string
}

var _ logger.Narrator = (*MockNarrator)(nil)

func (m *MockNarrator) Info(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *MockNarrator) Success(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes = append(m.successes, msg)
}

// MockLogger implements the helpers.LoggerInterface for testing
type MockLogger struct {
	mu     sync.Mutex
	errors []string
	infos  []string
}

// Ensure MockLogger implements helpers.LoggerInterface
var _ helpers.LoggerInterface = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{
		errors: make([]string, 0),
		infos:  make([]string, 0),
	}
}

func (m *MockLogger) LogError(target string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, target+": "+err.Error())
}

func (m *MockLogger) LogInfo(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, fmt.Sprintf(format, args...))
}

// MockLease hands out leases unless the target is marked held
type MockLease struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	acquired []string
	released []string
}

var _ Lease = (*MockLease)(nil)

func NewMockLease() *MockLease {
	return &MockLease{held: make(map[string]bool)}
}

func (m *MockLease) Acquire(target, owner string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.held[target] {
		return nil, watcherrors.NewLocked(target)
	}
	m.held[target] = true
	m.acquired = append(m.acquired, target+"@"+owner)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.held, target)
		m.released = append(m.released, target)
	}, nil
}
