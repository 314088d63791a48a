package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renohub/internal/domain"
	"renohub/internal/fixtures"
)

func TestBook_SelectQuoteIsExclusive(t *testing.T) {
	b := NewBook(fixtures.Estimates())

	items, err := b.SelectQuote("1", "e1", "渋谷電気工事")
	require.NoError(t, err)

	e1 := items[0]
	assert.False(t, e1.VendorQuotes[0].Selected)
	assert.True(t, e1.VendorQuotes[1].Selected)

	sum, err := Summarize(items)
	require.NoError(t, err)
	assert.Equal(t, int64(2520000), sum.SelectedTotal)
}

func TestBook_SelectQuoteRejectsUnsubmitted(t *testing.T) {
	b := NewBook(fixtures.Estimates())

	_, err := b.SelectQuote("2", "e6", "ネットワンシステムズ")
	assert.ErrorIs(t, err, ErrQuoteNotSubmitted)

	items, ok := b.Items("2")
	require.True(t, ok)
	assert.False(t, items[1].VendorQuotes[0].Selected)
}

func TestBook_SelectQuoteKeepsSheetOnIntegrityError(t *testing.T) {
	b := NewBook(map[string][]domain.EstimateItem{"9": {
		{
			ID:         "ok",
			AIEstimate: 100,
			VendorQuotes: []domain.VendorQuote{
				{VendorName: "a", Amount: 90, IsSubmitted: true},
				{VendorName: "b", Amount: 95, IsSubmitted: true},
			},
		},
		{
			ID:           "broken",
			AIEstimate:   100,
			VendorQuotes: []domain.VendorQuote{{VendorName: "c", Amount: 80, Selected: true}},
		},
	}})

	_, err := b.SelectQuote("9", "ok", "a")
	assert.ErrorIs(t, err, ErrDataIntegrity)

	items, ok := b.Items("9")
	require.True(t, ok)
	assert.False(t, items[0].VendorQuotes[0].Selected)
	assert.False(t, items[0].VendorQuotes[1].Selected)
}

func TestBook_SelectQuoteNotFound(t *testing.T) {
	b := NewBook(fixtures.Estimates())

	_, err := b.SelectQuote("missing", "e1", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = b.SelectQuote("1", "e99", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = b.SelectQuote("1", "e1", "unknown vendor")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBook_ItemsReturnsCopies(t *testing.T) {
	b := NewBook(fixtures.Estimates())

	items, ok := b.Items("1")
	require.True(t, ok)
	items[0].VendorQuotes[0].Amount = 1

	again, _ := b.Items("1")
	assert.Equal(t, int64(480000), again[0].VendorQuotes[0].Amount)

	item, ok := b.Item("e3")
	require.True(t, ok)
	assert.Len(t, item.VendorQuotes, 2)
}
