package worker

import (
	"fmt"

	"github.com/roccohia/labubu-watcher/config"
	"github.com/roccohia/labubu-watcher/helpers"
	"github.com/roccohia/labubu-watcher/internal/crawler"
	"github.com/roccohia/labubu-watcher/internal/detect"
)

// Job names
const (
	JobXHS    = "xhs"
	JobDouyin = "douyin"
	JobTaobao = "taobao"
)

// RunAllJobs is the sequence run by the all command
var RunAllJobs = []string{JobXHS, JobTaobao}

// Job is one watched target: where to fetch, how to judge records and what
// to say about a match.
type Job struct {
	Name        string
	Label       string // platform name shown in alerts
	Subject     string // what a matching record is, e.g. "post"
	Fetch       crawler.FetchConfig
	Recency     detect.RecencyRule // nil accepts every record
	RecencyName string
	Keywords    detect.KeywordClassifier
	Fixture     []crawler.Record // records used instead of fetching in debug mode
	NoMatch     string           // narration when nothing matched
}

// DefaultJobs builds the three targets from cfg and applies overrides
func DefaultJobs(cfg *config.Config, overrides map[string]config.TargetOverride) ([]Job, error) {
	base := crawler.FetchConfig{
		MaxRetries:   cfg.FetchMaxRetries,
		Timeout:      cfg.FetchTimeout,
		SettleDelay:  cfg.FetchSettleDelay,
		BackoffDelay: cfg.FetchBackoffDelay,
		Fingerprint:  crawler.DefaultFingerprint(),
	}

	xhs := Job{
		Name:        JobXHS,
		Label:       "小红书",
		Subject:     "post",
		Fetch:       base,
		Recency:     detect.FeedRecency,
		RecencyName: "feed",
		Keywords:    detect.SocialKeywords,
		Fixture: []crawler.Record{
			{Text: "Labubu 补货啦！速来", TimeLabel: "刚刚"},
			{Text: "Labubu 突击发售", TimeLabel: "2小时前"},
			{Text: "Labubu 发售", TimeLabel: "10分钟前"},
		},
		NoMatch: "no fresh restock or launch posts",
	}
	xhs.Fetch.Target = JobXHS
	xhs.Fetch.URL = cfg.XHSURL
	xhs.Fetch.Selectors = crawler.Selectors{Container: ".note-card", Text: ".content", Time: ".time"}

	douyin := Job{
		Name:        JobDouyin,
		Label:       "抖音",
		Subject:     "video",
		Fetch:       base,
		Recency:     detect.ProfileRecency,
		RecencyName: "profile",
		Keywords:    detect.SocialKeywords,
		Fixture: []crawler.Record{
			{Text: "Labubu 补货开售啦！", TimeLabel: "今天"},
			{Text: "Labubu 新品发售", TimeLabel: "2天前"},
			{Text: "Labubu 突击补货", TimeLabel: "3小时前"},
		},
		NoMatch: "no fresh restock or launch videos",
	}
	douyin.Fetch.Target = JobDouyin
	douyin.Fetch.URL = cfg.DouyinURL
	douyin.Fetch.Selectors = crawler.Selectors{Container: ".video-card", Text: ".desc", Time: ".time"}

	taobao := Job{
		Name:        JobTaobao,
		Label:       "淘宝",
		Subject:     "listing",
		Fetch:       base,
		RecencyName: "none",
		Keywords:    detect.MarketplaceKeywords,
		Fixture:     []crawler.Record{{Text: "立即购买"}},
		NoMatch:     "not purchasable yet",
	}
	taobao.Fetch.Target = JobTaobao
	taobao.Fetch.URL = cfg.TaobaoURL
	taobao.Fetch.Humanize = true
	taobao.Fetch.CookiesPath = cfg.TaobaoCookiesPath
	taobao.Fetch.Selectors = crawler.Selectors{
		Container: "#purchasePanel > div._4nNipe17pV--footWrap--_5db9b8b > div > div._4nNipe17pV--LeftButtonList--_21fe567 > button:nth-child(1)",
	}

	jobs := []Job{xhs, douyin, taobao}
	for name := range overrides {
		if _, ok := findJob(jobs, name); !ok {
			return nil, fmt.Errorf("targets file names unknown target %q", name)
		}
	}
	for i := range jobs {
		if o, ok := overrides[jobs[i].Name]; ok {
			job, err := applyOverride(jobs[i], o)
			if err != nil {
				return nil, err
			}
			jobs[i] = job
		}
	}
	return jobs, nil
}

func applyOverride(job Job, o config.TargetOverride) (Job, error) {
	if o.URL != "" {
		job.Fetch.URL = o.URL
	}
	if o.Selectors.Container != "" {
		job.Fetch.Selectors.Container = o.Selectors.Container
	}
	if o.Selectors.Text != "" {
		job.Fetch.Selectors.Text = o.Selectors.Text
	}
	if o.Selectors.Time != "" {
		job.Fetch.Selectors.Time = o.Selectors.Time
	}
	if len(o.Selectors.RemoveElements) > 0 {
		removals := make([]crawler.ElementRemoval, 0, len(o.Selectors.RemoveElements))
		for _, r := range o.Selectors.RemoveElements {
			removals = append(removals, crawler.ElementRemoval{Selector: r.Selector, ApplyToPath: r.ApplyToPath})
		}
		job.Fetch.Selectors.RemoveElements = removals
	}
	if o.MaxRetries > 0 {
		job.Fetch.MaxRetries = o.MaxRetries
	}
	if o.Humanize != nil {
		job.Fetch.Humanize = *o.Humanize
	}
	switch o.UserAgent {
	case "":
	case "random":
		job.Fetch.Fingerprint.UserAgent = helpers.RandomUserAgent()
	default:
		job.Fetch.Fingerprint.UserAgent = o.UserAgent
	}
	switch o.Recency {
	case "":
	case "none":
		job.Recency, job.RecencyName = nil, "none"
	default:
		rule, ok := detect.RecencyByName(o.Recency)
		if !ok {
			return job, fmt.Errorf("target %s: unknown recency rule %q", job.Name, o.Recency)
		}
		job.Recency, job.RecencyName = rule, o.Recency
	}
	return job, nil
}

func findJob(jobs []Job, name string) (Job, bool) {
	for _, j := range jobs {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}
