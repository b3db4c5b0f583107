package crawler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roccohia/labubu-watcher/logger"
	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
)

// mockNarrator records narration lines
type mockNarrator struct {
	mu        sync.Mutex
	infos     []string
	successes []string
}

var _ logger.Narrator = (*mockNarrator)(nil)

func (m *mockNarrator) Info(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockNarrator) Success(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes = append(m.successes, msg)
}

func (m *mockNarrator) countInfos(substr string) int {
	n := 0
	for _, line := range m.infos {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// stubLauncher hands out sessions whose behavior is scripted per attempt
type stubLauncher struct {
	navigateErrs []error // indexed by attempt, nil means success
	extractErr   error
	records      []Record
	launchErr    error

	launches int
	closes   int
	live     int
	maxLive  int
	cookies  []Cookie
}

var _ Launcher = (*stubLauncher)(nil)

func (l *stubLauncher) Name() string { return "stub" }

func (l *stubLauncher) Launch(_ context.Context, _ FetchConfig, cookies []Cookie) (Session, error) {
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	l.launches++
	l.live++
	if l.live > l.maxLive {
		l.maxLive = l.live
	}
	l.cookies = cookies
	return &stubSession{launcher: l, attempt: l.launches - 1}, nil
}

type stubSession struct {
	launcher  *stubLauncher
	attempt   int
	humanized bool
}

func (s *stubSession) Navigate(context.Context, string) error {
	if s.attempt < len(s.launcher.navigateErrs) {
		return s.launcher.navigateErrs[s.attempt]
	}
	return nil
}

func (s *stubSession) Humanize(context.Context) error {
	s.humanized = true
	return errors.New("no mouse")
}

func (s *stubSession) Extract(context.Context, Selectors) ([]Record, error) {
	if s.launcher.extractErr != nil {
		return nil, s.launcher.extractErr
	}
	return s.launcher.records, nil
}

func (s *stubSession) Close() error {
	s.launcher.closes++
	s.launcher.live--
	return nil
}

// mockRecorder counts metric calls
type mockRecorder struct {
	attempts map[string]int
	failures map[string]int
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{attempts: map[string]int{}, failures: map[string]int{}}
}

func (m *mockRecorder) FetchAttempt(target string) { m.attempts[target]++ }
func (m *mockRecorder) FetchFailed(target string)  { m.failures[target]++ }

func testFetchConfig() FetchConfig {
	return FetchConfig{
		Target:       "xhs",
		URL:          "https://example.com/search_result?keyword=labubu",
		Selectors:    Selectors{Container: ".note-card", Text: ".content", Time: ".time"},
		MaxRetries:   3,
		Timeout:      time.Second,
		BackoffDelay: time.Millisecond,
		Humanize:     true,
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	timeout := errors.New("navigation timeout of 60000 ms exceeded")
	launcher := &stubLauncher{navigateErrs: []error{timeout, timeout, timeout}}
	recorder := newMockRecorder()
	narr := &mockNarrator{}

	records, err := NewPageFetcher(launcher, recorder).Fetch(context.Background(), testFetchConfig(), narr)

	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, watcherrors.IsFetch(err))
	assert.ErrorIs(t, err, timeout)

	var we *watcherrors.WatchError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, 3, we.Attempts)

	for i := 1; i <= 3; i++ {
		assert.Equal(t, 1, narr.countInfos(fmt.Sprintf("(attempt %d/3) opening", i)))
	}
	assert.Equal(t, 3, narr.countInfos("opening"))
	assert.Empty(t, narr.successes)

	assert.Equal(t, 3, launcher.launches)
	assert.Equal(t, 3, launcher.closes)
	assert.Equal(t, 1, launcher.maxLive)
	assert.Equal(t, 3, recorder.attempts["xhs"])
	assert.Equal(t, 1, recorder.failures["xhs"])
}

func TestFetchRecoversAfterFailure(t *testing.T) {
	want := []Record{{Text: "Labubu 补货啦！速来", TimeLabel: "刚刚"}}
	launcher := &stubLauncher{
		navigateErrs: []error{errors.New("net::ERR_CONNECTION_RESET")},
		records:      want,
	}
	narr := &mockNarrator{}

	records, err := NewPageFetcher(launcher, nil).Fetch(context.Background(), testFetchConfig(), narr)

	require.NoError(t, err)
	assert.Equal(t, want, records)
	assert.Equal(t, 2, launcher.launches)
	assert.Equal(t, 2, launcher.closes)
	assert.Equal(t, 0, launcher.live)
	assert.Equal(t, 1, narr.countInfos("retrying in"))
}

func TestFetchZeroRecordsIsSuccess(t *testing.T) {
	launcher := &stubLauncher{records: []Record{}}

	records, err := NewPageFetcher(launcher, nil).Fetch(context.Background(), testFetchConfig(), &mockNarrator{})

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, launcher.launches)
}

func TestFetchExtractionErrorIsRetried(t *testing.T) {
	launcher := &stubLauncher{extractErr: errors.New("execution context was destroyed")}
	cfg := testFetchConfig()
	cfg.MaxRetries = 2

	_, err := NewPageFetcher(launcher, nil).Fetch(context.Background(), cfg, &mockNarrator{})

	require.Error(t, err)
	assert.True(t, watcherrors.Is(err, watcherrors.ErrorTypeExtraction))
	assert.Equal(t, 2, launcher.launches)
	assert.Equal(t, 2, launcher.closes)
}

func TestFetchLaunchError(t *testing.T) {
	launcher := &stubLauncher{launchErr: errors.New("chrome not found")}
	cfg := testFetchConfig()
	cfg.MaxRetries = 0

	_, err := NewPageFetcher(launcher, nil).Fetch(context.Background(), cfg, &mockNarrator{})

	require.Error(t, err)
	assert.True(t, watcherrors.IsFetch(err))
	assert.True(t, watcherrors.Is(err, watcherrors.ErrorTypeNavigation))
}

func TestFetchBadCookieFileStopsEarly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	launcher := &stubLauncher{}
	cfg := testFetchConfig()
	cfg.CookiesPath = path

	_, err := NewPageFetcher(launcher, nil).Fetch(context.Background(), cfg, &mockNarrator{})

	require.Error(t, err)
	assert.True(t, watcherrors.IsFetch(err))
	assert.True(t, watcherrors.Is(err, watcherrors.ErrorTypeCookie))
	assert.Equal(t, 0, launcher.launches)
}

func TestFetchPassesCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"cna","value":"abc","domain":".taobao.com"}]`), 0644))

	launcher := &stubLauncher{records: []Record{{Text: "立即购买"}}}
	cfg := testFetchConfig()
	cfg.CookiesPath = path
	narr := &mockNarrator{}

	_, err := NewPageFetcher(launcher, nil).Fetch(context.Background(), cfg, narr)

	require.NoError(t, err)
	require.Len(t, launcher.cookies, 1)
	assert.Equal(t, "cna", launcher.cookies[0].Name)
	assert.Equal(t, 1, narr.countInfos("loaded 1 cookies"))
}

func TestFetchStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	launcher := &stubLauncher{navigateErrs: []error{errors.New("boom"), errors.New("boom"), errors.New("boom")}}
	cfg := testFetchConfig()
	cfg.BackoffDelay = time.Hour

	_, err := NewPageFetcher(launcher, nil).Fetch(ctx, cfg, &mockNarrator{})

	require.Error(t, err)
	assert.True(t, watcherrors.IsFetch(err))
	assert.Equal(t, 1, launcher.launches)
}
