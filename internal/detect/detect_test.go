package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedRecency(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"刚刚", true},
		{"just now", true},
		{"Just now", true},
		{"10分钟前", true},
		{"5 minutes ago", true},
		{"1 minute ago", true},
		{"1小时前", true},
		{"1 hour ago", true},
		{"  3分钟前 ", true},
		{"2小时前", false},
		{"2 hours ago", false},
		{"今天", false},
		{"3天前", false},
		{"分钟前", false},
		{"约10分钟前", false},
		{"10分钟前发布", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, FeedRecency(tt.label))
		})
	}
}

func TestProfileRecency(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"今天", true},
		{"today", true},
		{"今天 12:30", true},
		{"3小时前", true},
		{"3 hours ago", true},
		{"1 hour ago", true},
		{"2天前", false},
		{"2 days ago", false},
		{"刚刚", false},
		{"10分钟前", false},
		{"小时前", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileRecency(tt.label))
		})
	}
}

func TestRecencyByName(t *testing.T) {
	rule, ok := RecencyByName("Feed")
	assert.True(t, ok)
	assert.True(t, rule("刚刚"))

	rule, ok = RecencyByName("profile")
	assert.True(t, ok)
	assert.True(t, rule("今天"))

	_, ok = RecencyByName("weekly")
	assert.False(t, ok)
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"restock", "Labubu 补货啦！速来", Restock},
		{"restock english", "Labubu restocked, grab it!", Restock},
		{"ambush", "Labubu 突击发售", LaunchOrSale},
		{"release", "Labubu new release", LaunchOrSale},
		{"both keywords restock last", "Labubu 发售 then 补货", Restock},
		{"both keywords english", "Labubu ambush restock", Restock},
		{"nothing", "Labubu 开箱分享", None},
		{"empty", "", None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SocialKeywords.Classify(tt.text))
		})
	}
}

func TestMarketplaceKeywords(t *testing.T) {
	assert.Equal(t, Restock, MarketplaceKeywords.Classify("立即购买"))
	assert.Equal(t, Restock, MarketplaceKeywords.Classify("Buy Now"))
	assert.Equal(t, None, MarketplaceKeywords.Classify("已售罄"))
	assert.Equal(t, None, MarketplaceKeywords.Classify("发售提醒"))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "restock", Restock.String())
	assert.Equal(t, "launch_or_sale", LaunchOrSale.String())
}
