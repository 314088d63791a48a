package estimate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"renohub/internal/domain"
)

var (
	ErrNotFound          = errors.New("estimate: not found")
	ErrQuoteNotSubmitted = errors.New("estimate: quote has not been submitted")
)

// Book holds the estimate sheets of every project for the process
// lifetime. Reads return copies; writes replace a project's whole sheet.
type Book struct {
	mu     sync.RWMutex
	sheets map[string][]domain.EstimateItem
}

func NewBook(seed map[string][]domain.EstimateItem) *Book {
	b := &Book{sheets: make(map[string][]domain.EstimateItem, len(seed))}
	for projectID, items := range seed {
		b.sheets[strings.TrimSpace(projectID)] = domain.CloneEstimateItems(items)
	}
	return b
}

// Items returns a copy of the project's sheet.
func (b *Book) Items(projectID string) ([]domain.EstimateItem, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	items, ok := b.sheets[strings.TrimSpace(projectID)]
	if !ok {
		return nil, false
	}
	return domain.CloneEstimateItems(items), true
}

// Item looks up a single estimate item across all sheets.
func (b *Book) Item(estimateID string) (domain.EstimateItem, bool) {
	estimateID = strings.TrimSpace(estimateID)
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, items := range b.sheets {
		for _, it := range items {
			if it.ID == estimateID {
				return it.Clone(), true
			}
		}
	}
	return domain.EstimateItem{}, false
}

// SelectQuote makes the named vendor's quote the only selected quote of
// the item and returns the updated sheet.
func (b *Book) SelectQuote(projectID, itemID, vendorName string) ([]domain.EstimateItem, error) {
	projectID = strings.TrimSpace(projectID)
	itemID = strings.TrimSpace(itemID)
	vendorName = strings.TrimSpace(vendorName)

	b.mu.Lock()
	defer b.mu.Unlock()

	items, ok := b.sheets[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	next := domain.CloneEstimateItems(items)
	itemIdx := -1
	for i := range next {
		if next[i].ID == itemID {
			itemIdx = i
			break
		}
	}
	if itemIdx < 0 {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	quotes := next[itemIdx].VendorQuotes
	quoteIdx := -1
	for i := range quotes {
		if quotes[i].VendorName == vendorName {
			quoteIdx = i
			break
		}
	}
	if quoteIdx < 0 {
		return nil, fmt.Errorf("quote from %s: %w", vendorName, ErrNotFound)
	}
	if !quotes[quoteIdx].IsSubmitted {
		return nil, fmt.Errorf("quote from %s: %w", vendorName, ErrQuoteNotSubmitted)
	}
	for i := range quotes {
		quotes[i].Selected = i == quoteIdx
	}
	if _, err := Summarize(next); err != nil {
		return nil, err
	}
	b.sheets[projectID] = next
	return domain.CloneEstimateItems(next), nil
}
