package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.False(t, config.DebugMode)
	assert.Equal(t, "rod", config.BrowserEngine)
	assert.True(t, config.BrowserHeadless)
	assert.Equal(t, 3, config.FetchMaxRetries)
	assert.Equal(t, 60*time.Second, config.FetchTimeout)
	assert.Equal(t, 3*time.Second, config.FetchSettleDelay)
	assert.Equal(t, 10*time.Second, config.FetchBackoffDelay)
	assert.Equal(t, DefaultXHSURL, config.XHSURL)
	assert.Equal(t, "taobao-cookies.json", config.TaobaoCookiesPath)
	assert.Equal(t, "labubu:alerts", config.RedisStream)
	assert.Equal(t, 600*time.Second, config.RunLockTTL)
	assert.NoError(t, config.Validate())

	// Test with environment variables
	t.Setenv("DEBUG_MODE", "true")
	t.Setenv("BROWSER_ENGINE", "HTTP")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("FETCH_MAX_RETRIES", "5")
	t.Setenv("FETCH_BACKOFF_SECONDS", "1")
	t.Setenv("XHS_URL", "https://example.com/xhs")
	t.Setenv("REDIS_ADDR", "redis.example.com:6379")
	t.Setenv("REDIS_DB", "1")

	config = LoadConfig()
	assert.True(t, config.DebugMode)
	assert.Equal(t, "http", config.BrowserEngine)
	assert.False(t, config.BrowserHeadless)
	assert.Equal(t, 5, config.FetchMaxRetries)
	assert.Equal(t, time.Second, config.FetchBackoffDelay)
	assert.Equal(t, "https://example.com/xhs", config.XHSURL)
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
}

func TestLoadConfigBadBool(t *testing.T) {
	t.Setenv("DEBUG_MODE", "yes please")
	assert.False(t, LoadConfig().DebugMode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown engine", func(c *Config) { c.BrowserEngine = "playwright" }},
		{"zero retries", func(c *Config) { c.FetchMaxRetries = 0 }},
		{"zero timeout", func(c *Config) { c.FetchTimeout = 0 }},
		{"negative settle", func(c *Config) { c.FetchSettleDelay = -time.Second }},
		{"telegram token only", func(c *Config) { c.TelegramBotToken = "123:abc" }},
		{"lock without ttl", func(c *Config) { c.MemcacheAddr = "localhost:11211"; c.RunLockTTL = 0 }},
		{"lock ttl past 30 days", func(c *Config) { c.MemcacheAddr = "localhost:11211"; c.RunLockTTL = MaxRunLockTTL + time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := LoadConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidateLockTTLBoundary(t *testing.T) {
	c := LoadConfig()
	c.MemcacheAddr = "localhost:11211"
	c.RunLockTTL = MaxRunLockTTL
	assert.NoError(t, c.Validate())

	t.Setenv("RUN_LOCK_SECONDS", "2592001")
	assert.Error(t, LoadConfig().Validate())
}

func TestLoadTargetOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	data := `
xhs:
  url: https://example.com/search?keyword=labubu
  selectors:
    container: section.note-item
    text: .title span
  max_retries: 5
taobao:
  humanize: false
  user_agent: test-agent
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	overrides, err := LoadTargetOverrides(path)
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	xhs := overrides["xhs"]
	assert.Equal(t, "https://example.com/search?keyword=labubu", xhs.URL)
	assert.Equal(t, "section.note-item", xhs.Selectors.Container)
	assert.Equal(t, ".title span", xhs.Selectors.Text)
	assert.Empty(t, xhs.Selectors.Time)
	assert.Equal(t, 5, xhs.MaxRetries)
	assert.Nil(t, xhs.Humanize)

	taobao := overrides["taobao"]
	require.NotNil(t, taobao.Humanize)
	assert.False(t, *taobao.Humanize)
	assert.Equal(t, "test-agent", taobao.UserAgent)
}

func TestLoadTargetOverridesErrors(t *testing.T) {
	overrides, err := LoadTargetOverrides("")
	require.NoError(t, err)
	assert.Empty(t, overrides)

	_, err = LoadTargetOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("xhs: [unclosed"), 0644))
	_, err = LoadTargetOverrides(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "negative.yaml")
	require.NoError(t, os.WriteFile(path, []byte("xhs:\n  max_retries: -1\n"), 0644))
	_, err = LoadTargetOverrides(path)
	assert.Error(t, err)

	path = filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	overrides, err = LoadTargetOverrides(path)
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestLoadTargetOverridesRemoveElements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.yaml")
	data := `
xhs:
  selectors:
    remove_elements:
      - selector: .badge
        apply_to_path: text
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	overrides, err := LoadTargetOverrides(path)
	require.NoError(t, err)
	assert.Equal(t, []RemovalOverride{{Selector: ".badge", ApplyToPath: "text"}}, overrides["xhs"].Selectors.RemoveElements)
}

func TestLoadTargetOverridesRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"misspelled selector key", "xhs:\n  selectors:\n    contaner: .card\n"},
		{"misspelled target key", "xhs:\n  max_retry: 2\n"},
		{"removal without selector", "xhs:\n  selectors:\n    remove_elements:\n      - apply_to_path: text\n"},
		{"removal with bad path", "xhs:\n  selectors:\n    remove_elements:\n      - selector: .x\n        apply_to_path: title\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "targets.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0644))
			_, err := LoadTargetOverrides(path)
			assert.Error(t, err)
		})
	}
}
