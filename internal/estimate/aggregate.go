// Package estimate derives budget totals and selection state from
// estimate items, and keeps the per-project estimate sheets.
package estimate

import (
	"errors"
	"fmt"
	"math"

	"renohub/internal/domain"
)

// SelectionState is the derived presentation state of one estimate item.
type SelectionState string

const (
	StateNoQuotes         SelectionState = "no_quotes"
	StatePendingSelection SelectionState = "pending_selection"
	StateQuoteSelected    SelectionState = "quote_selected"
)

var ErrDataIntegrity = errors.New("estimate: data integrity violation")

// IntegrityError reports an estimate item that breaks the single-selection
// or selected-implies-submitted invariant.
type IntegrityError struct {
	ItemID string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("estimate item %s: %s", e.ItemID, e.Reason)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrDataIntegrity }

type ItemSummary struct {
	ItemID     string              `json:"itemId"`
	Category   domain.CostCategory `json:"category"`
	AIEstimate int64               `json:"aiEstimate"`
	State      SelectionState      `json:"state"`
	Selected   *domain.VendorQuote `json:"selected,omitempty"`
	// Delta is the selected amount relative to the item's AI estimate.
	Delta *float64 `json:"delta,omitempty"`
}

type Summary struct {
	AITotal       int64         `json:"aiTotal"`
	SelectedTotal int64         `json:"selectedTotal"`
	Delta         *float64      `json:"delta,omitempty"`
	Items         []ItemSummary `json:"items"`
}

// DeltaPercent rounds the total delta to a whole percentage, the way the
// estimate tab badge shows it. ok is false when there is no AI total.
func (s Summary) DeltaPercent() (pct int, ok bool) {
	if s.Delta == nil {
		return 0, false
	}
	return int(math.Round(*s.Delta * 100)), true
}

// Delta returns (selected-aiTotal)/aiTotal; ok is false when aiTotal is 0.
func Delta(selected, aiTotal int64) (float64, bool) {
	if aiTotal == 0 {
		return 0, false
	}
	return float64(selected-aiTotal) / float64(aiTotal), true
}

// Classify returns the item's selection state and selected quote.
func Classify(item domain.EstimateItem) (SelectionState, *domain.VendorQuote, error) {
	if len(item.VendorQuotes) == 0 {
		return StateNoQuotes, nil, nil
	}
	var selected *domain.VendorQuote
	for i := range item.VendorQuotes {
		q := item.VendorQuotes[i]
		if !q.Selected {
			continue
		}
		if !q.IsSubmitted {
			return "", nil, &IntegrityError{ItemID: item.ID, Reason: fmt.Sprintf("quote from %s is selected but not submitted", q.VendorName)}
		}
		if selected != nil {
			return "", nil, &IntegrityError{ItemID: item.ID, Reason: "more than one quote is selected"}
		}
		selected = &q
	}
	if selected == nil {
		return StatePendingSelection, nil, nil
	}
	return StateQuoteSelected, selected, nil
}

// Summarize folds items into totals. Items that violate an invariant make
// the whole summary fail; nothing is partially summed.
func Summarize(items []domain.EstimateItem) (Summary, error) {
	out := Summary{Items: make([]ItemSummary, 0, len(items))}
	for _, item := range items {
		state, selected, err := Classify(item)
		if err != nil {
			return Summary{}, err
		}
		is := ItemSummary{
			ItemID:     item.ID,
			Category:   item.Category,
			AIEstimate: item.AIEstimate,
			State:      state,
			Selected:   selected,
		}
		out.AITotal += item.AIEstimate
		if selected != nil {
			out.SelectedTotal += selected.Amount
			if d, ok := Delta(selected.Amount, item.AIEstimate); ok {
				is.Delta = &d
			}
		}
		out.Items = append(out.Items, is)
	}
	if d, ok := Delta(out.SelectedTotal, out.AITotal); ok {
		out.Delta = &d
	}
	return out, nil
}
