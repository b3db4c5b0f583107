package detect

import (
	"github.com/roccohia/labubu-watcher/helpers"
)

// Category is the signal a record carries.
type Category int

const (
	// None means the text carries no signal
	None Category = iota
	// Restock means sold-out stock is available again
	Restock
	// LaunchOrSale means a new drop or a scheduled sale
	LaunchOrSale
)

// String returns the category name used in logs and metrics
func (c Category) String() string {
	switch c {
	case Restock:
		return "restock"
	case LaunchOrSale:
		return "launch_or_sale"
	default:
		return "none"
	}
}

// KeywordClassifier maps text to a Category.
// Restock keywords are always checked first, wherever they sit in the text.
type KeywordClassifier struct {
	Restock      []string
	LaunchOrSale []string
}

// SocialKeywords is used for feed posts and profile videos.
var SocialKeywords = KeywordClassifier{
	Restock:      []string{"补货", "restock"},
	LaunchOrSale: []string{"突击", "ambush", "发售", "new release"},
}

// MarketplaceKeywords reads a product page purchase button.
var MarketplaceKeywords = KeywordClassifier{
	Restock: []string{"立即购买", "buy now"},
}

// Classify returns the highest-priority category found in text
func (k KeywordClassifier) Classify(text string) Category {
	if text == "" {
		return None
	}
	if helpers.ContainsAnyFold(text, k.Restock) {
		return Restock
	}
	if helpers.ContainsAnyFold(text, k.LaunchOrSale) {
		return LaunchOrSale
	}
	return None
}
