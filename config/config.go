package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default target pages
const (
	DefaultXHSURL    = "https://www.xiaohongshu.com/search_result?keyword=labubu"
	DefaultDouyinURL = "https://www.douyin.com/user/MS4wLjABAAAAAA"
	DefaultTaobaoURL = "https://detail.tmall.com/item.htm?id=820704313108&scene=taobao_shop&sku_properties=134942334%3A16301649857&spm=a312a.7700824.w21034790-25036845630.3.ad887371V91Wgl"
)

// MaxRunLockTTL is the longest relative expiration memcached accepts
const MaxRunLockTTL = 30 * 24 * time.Hour

// Config represents the application configuration
type Config struct {
	// Run mode
	DebugMode   bool
	Environment string

	// Browser configuration
	BrowserEngine   string
	BrowserBin      string
	BrowserHeadless bool

	// Fetch policy
	FetchMaxRetries   int
	FetchTimeout      time.Duration
	FetchSettleDelay  time.Duration
	FetchBackoffDelay time.Duration

	// URLs for the watched targets
	XHSURL    string
	DouyinURL string
	TaobaoURL string

	TaobaoCookiesPath string
	TargetsFile       string

	// Notification sinks
	TelegramBotToken string
	TelegramChatID   string
	WebhookURL       string

	// Redis configuration
	RedisAddr   string
	RedisDB     int
	RedisStream string

	// Memcache configuration. Memcached reads expirations above
	// MaxRunLockTTL as unix timestamps.
	MemcacheAddr string
	RunLockTTL   time.Duration

	PushgatewayURL string
	ErrorLogFile   string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxRetries, _ := strconv.Atoi(getEnv("FETCH_MAX_RETRIES", "3"))
	timeoutSeconds, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "60"))
	settleMillis, _ := strconv.Atoi(getEnv("FETCH_SETTLE_MS", "3000"))
	backoffSeconds, _ := strconv.Atoi(getEnv("FETCH_BACKOFF_SECONDS", "10"))
	lockSeconds, _ := strconv.Atoi(getEnv("RUN_LOCK_SECONDS", "600"))

	return &Config{
		DebugMode:         getBool("DEBUG_MODE", false),
		Environment:       getEnv("WATCHER_ENVIRONMENT", "development"),
		BrowserEngine:     strings.ToLower(getEnv("BROWSER_ENGINE", "rod")),
		BrowserBin:        getEnv("BROWSER_BIN", ""),
		BrowserHeadless:   getBool("BROWSER_HEADLESS", true),
		FetchMaxRetries:   maxRetries,
		FetchTimeout:      time.Duration(timeoutSeconds) * time.Second,
		FetchSettleDelay:  time.Duration(settleMillis) * time.Millisecond,
		FetchBackoffDelay: time.Duration(backoffSeconds) * time.Second,
		XHSURL:            getEnv("XHS_URL", DefaultXHSURL),
		DouyinURL:         getEnv("DOUYIN_URL", DefaultDouyinURL),
		TaobaoURL:         getEnv("TAOBAO_URL", DefaultTaobaoURL),
		TaobaoCookiesPath: getEnv("TAOBAO_COOKIES_PATH", "taobao-cookies.json"),
		TargetsFile:       getEnv("TARGETS_FILE", ""),
		TelegramBotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:    getEnv("TELEGRAM_CHAT_ID", ""),
		WebhookURL:        getEnv("WEBHOOK_URL", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisDB:           redisDB,
		RedisStream:       getEnv("REDIS_STREAM", "labubu:alerts"),
		MemcacheAddr:      getEnv("MEMCACHE_ADDR", ""),
		RunLockTTL:        time.Duration(lockSeconds) * time.Second,
		PushgatewayURL:    getEnv("PUSHGATEWAY_URL", ""),
		ErrorLogFile:      getEnv("ERROR_LOG_FILE", "error.log"),
	}
}

// Validate reports the first setting that cannot drive a run
func (c *Config) Validate() error {
	switch c.BrowserEngine {
	case "rod", "chromedp", "http":
	default:
		return fmt.Errorf("BROWSER_ENGINE must be rod, chromedp or http, got %q", c.BrowserEngine)
	}
	if c.FetchMaxRetries < 1 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be at least 1, got %d", c.FetchMaxRetries)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.FetchSettleDelay < 0 || c.FetchBackoffDelay < 0 {
		return fmt.Errorf("fetch delays must not be negative")
	}
	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	if c.MemcacheAddr != "" && c.RunLockTTL < time.Second {
		return fmt.Errorf("RUN_LOCK_SECONDS must be at least 1 when MEMCACHE_ADDR is set")
	}
	if c.RunLockTTL > MaxRunLockTTL {
		return fmt.Errorf("RUN_LOCK_SECONDS must not exceed %d", int(MaxRunLockTTL.Seconds()))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}
