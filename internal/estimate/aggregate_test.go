package estimate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renohub/internal/domain"
	"renohub/internal/fixtures"
)

func quote(vendor string, amount int64, selected bool) domain.VendorQuote {
	return domain.VendorQuote{VendorName: vendor, Amount: amount, Selected: selected, IsSubmitted: true}
}

func TestSummarize_FixtureTotals(t *testing.T) {
	items := fixtures.Estimates()["1"]

	sum, err := Summarize(items)
	require.NoError(t, err)

	assert.Equal(t, int64(2750000), sum.AITotal)
	assert.Equal(t, int64(2480000), sum.SelectedTotal)
	require.NotNil(t, sum.Delta)
	assert.InDelta(t, -270000.0/2750000.0, *sum.Delta, 1e-9)

	pct, ok := sum.DeltaPercent()
	assert.True(t, ok)
	assert.Equal(t, -10, pct)

	require.Len(t, sum.Items, 4)
	assert.Equal(t, StateQuoteSelected, sum.Items[0].State)
	assert.Equal(t, "株式会社エレテック", sum.Items[0].Selected.VendorName)
	assert.Equal(t, StateNoQuotes, sum.Items[3].State)
	assert.Nil(t, sum.Items[3].Selected)
}

func TestSummarize_NoQuotesContributesZero(t *testing.T) {
	items := []domain.EstimateItem{
		{ID: "a", Category: domain.CategoryNetwork, AIEstimate: 100},
		{ID: "b", Category: domain.CategoryMoving, AIEstimate: 200, VendorQuotes: []domain.VendorQuote{}},
	}
	sum, err := Summarize(items)
	require.NoError(t, err)
	assert.Equal(t, int64(300), sum.AITotal)
	assert.Equal(t, int64(0), sum.SelectedTotal)
	for _, it := range sum.Items {
		assert.Equal(t, StateNoQuotes, it.State)
	}
}

func TestSummarize_PendingSelection(t *testing.T) {
	items := []domain.EstimateItem{{
		ID:           "a",
		AIEstimate:   1000,
		VendorQuotes: []domain.VendorQuote{quote("x", 900, false), quote("y", 1100, false)},
	}}
	sum, err := Summarize(items)
	require.NoError(t, err)
	assert.Equal(t, StatePendingSelection, sum.Items[0].State)
	assert.Equal(t, int64(0), sum.SelectedTotal)
}

func TestSummarize_SumsOneSelectedPerItem(t *testing.T) {
	items := []domain.EstimateItem{
		{ID: "a", AIEstimate: 10, VendorQuotes: []domain.VendorQuote{quote("x", 11, false), quote("y", 12, true)}},
		{ID: "b", AIEstimate: 20, VendorQuotes: []domain.VendorQuote{quote("z", 19, true)}},
		{ID: "c", AIEstimate: 30, VendorQuotes: []domain.VendorQuote{quote("w", 31, false)}},
	}
	sum, err := Summarize(items)
	require.NoError(t, err)
	assert.Equal(t, int64(60), sum.AITotal)
	assert.Equal(t, int64(31), sum.SelectedTotal)
}

func TestSummarize_Idempotent(t *testing.T) {
	items := fixtures.Estimates()["1"]
	first, err := Summarize(items)
	require.NoError(t, err)
	second, err := Summarize(items)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummarize_RejectsMultipleSelected(t *testing.T) {
	items := []domain.EstimateItem{{
		ID:           "dup",
		AIEstimate:   100,
		VendorQuotes: []domain.VendorQuote{quote("x", 90, true), quote("y", 95, true)},
	}}
	_, err := Summarize(items)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataIntegrity))

	var ie *IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "dup", ie.ItemID)
}

func TestSummarize_RejectsSelectedUnsubmitted(t *testing.T) {
	items := []domain.EstimateItem{{
		ID:           "draft",
		AIEstimate:   100,
		VendorQuotes: []domain.VendorQuote{{VendorName: "x", Amount: 90, Selected: true}},
	}}
	_, err := Summarize(items)
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestDelta_GuardsZeroTotal(t *testing.T) {
	_, ok := Delta(100, 0)
	assert.False(t, ok)

	sum, err := Summarize(nil)
	require.NoError(t, err)
	assert.Nil(t, sum.Delta)
	_, ok = sum.DeltaPercent()
	assert.False(t, ok)
}
