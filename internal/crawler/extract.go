package crawler

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractRecords reads every container matched by sel from an HTML document.
// Missing text or time fields resolve to "" and no container means no records.
func ExtractRecords(r io.Reader, sel Selectors) ([]Record, error) {
	if sel.Container == "" {
		return nil, fmt.Errorf("container selector is empty")
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %w", err)
	}

	records := []Record{}
	doc.Find(sel.Container).Each(func(_ int, s *goquery.Selection) {
		records = append(records, Record{
			Text:      processElement(s, sel, "text", sel.Text),
			TimeLabel: processElement(s, sel, "time", sel.Time),
		})
	})

	return records, nil
}

// cleanSelection removes specified elements from a selection before getting text
func cleanSelection(sel *goquery.Selection, removals []ElementRemoval, path string) *goquery.Selection {
	if sel.Length() == 0 {
		return sel
	}

	// Clone the selection to avoid modifying the original
	clone := sel.Clone()

	for _, removal := range removals {
		if removal.ApplyToPath == path {
			clone.Find(removal.Selector).Remove()
		}
	}

	return clone
}

// processElement extracts the text of a field inside a container
func processElement(s *goquery.Selection, sel Selectors, path string, selector string) string {
	if selector == "" {
		if path != "text" {
			return ""
		}
		return strings.TrimSpace(cleanSelection(s, sel.RemoveElements, path).Text())
	}

	elementSel := s.Find(selector).First()
	if elementSel.Length() == 0 {
		return ""
	}

	return strings.TrimSpace(cleanSelection(elementSel, sel.RemoveElements, path).Text())
}
