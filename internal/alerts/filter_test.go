package alerts_test

import (
	"testing"

	"aifinverse-backend/internal/alerts"
	"aifinverse-backend/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleEmptySelectionHidesEverything(t *testing.T) {
	visible := alerts.Visible(alerts.Catalog(types.MarketIndia), nil, nil)
	assert.Empty(t, visible)

	visible = alerts.Visible(alerts.Catalog(types.MarketUS), []string{}, nil)
	assert.Empty(t, visible)
}

func TestVisibleFiltersByType(t *testing.T) {
	visible := alerts.Visible(alerts.Catalog(types.MarketIndia), []string{"Contrabets"}, nil)

	require.Len(t, visible, 2)
	assert.Equal(t, "HDFCBANK", visible[0].Stock)
	assert.Equal(t, "ITC", visible[1].Stock)
}

func TestVisibleUnknownStrategyMatchesNothing(t *testing.T) {
	visible := alerts.Visible(alerts.Catalog(types.MarketUS), []string{"Astrology"}, nil)
	assert.Empty(t, visible)
}

func TestVisibleWatchlistNarrowsFeed(t *testing.T) {
	selected := []string{"Mean Reversion", "Pattern Formation"}

	visible := alerts.Visible(alerts.Catalog(types.MarketUS), selected, nil)
	require.Len(t, visible, 2)

	visible = alerts.Visible(alerts.Catalog(types.MarketUS), selected, []string{"NVDA"})
	require.Len(t, visible, 1)
	assert.Equal(t, "NVDA", visible[0].Stock)
}

func TestVisiblePreservesFeedOrder(t *testing.T) {
	// Two India rows carry the bare type "Contrabets", which is not one of
	// the canonical strategy names, so even a full selection hides them.
	all := alerts.Visible(alerts.Catalog(types.MarketIndia), alerts.AllStrategies, nil)

	require.Len(t, all, 5)
	assert.Equal(t, "RELIANCE", all[0].Stock)
	assert.Equal(t, "SBIN", all[len(all)-1].Stock)

	withContrabets := append(append([]string{}, alerts.AllStrategies...), "Contrabets")
	full := alerts.Visible(alerts.Catalog(types.MarketIndia), withContrabets, nil)

	require.Len(t, full, len(alerts.Catalog(types.MarketIndia)))
	assert.Equal(t, "HDFCBANK", full[2].Stock)
	assert.Equal(t, "ITC", full[3].Stock)
}

func TestCatalogUnknownMarket(t *testing.T) {
	assert.Nil(t, alerts.Catalog("mars"))
}

func TestAvailableExcludesSelected(t *testing.T) {
	available := alerts.Available([]string{"Mean Reversion"})

	assert.Len(t, available, len(alerts.AllStrategies)-1)
	assert.NotContains(t, available, "Mean Reversion")
	assert.Contains(t, available, "Cycle Count Reversal")
}

func TestAvailableWithNoSelection(t *testing.T) {
	assert.Equal(t, alerts.AllStrategies, alerts.Available(nil))
}

func TestFeedRecordsCarryDisplayStrings(t *testing.T) {
	for _, rec := range alerts.Catalog(types.MarketUS) {
		assert.NotEmpty(t, rec.Price)
		assert.NotEmpty(t, rec.Time)
	}
}
