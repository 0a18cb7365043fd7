package preferences_test

import (
	"path/filepath"
	"testing"
	"time"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/preferences"
	"aifinverse-backend/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { database.CloseDB() })
}

func TestLoadDefaultsForUnknownUser(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()

	p := store.Load("nobody@example.com")

	assert.Equal(t, "nobody@example.com", p.Email)
	assert.Empty(t, p.SelectedMarkets)
	require.NotNil(t, p.MarketPreferences)
	assert.Empty(t, p.MarketPreferences[types.MarketIndia])
	assert.Empty(t, p.MarketPreferences[types.MarketUS])
}

func TestLoadMigratesLegacyRegisteredMarket(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()

	cases := []struct {
		registered string
		want       []string
	}{
		{"India", []string{types.MarketIndia}},
		{"US", []string{types.MarketUS}},
		{"Both", []string{types.MarketIndia, types.MarketUS}},
	}

	for _, tc := range cases {
		email := "legacy-" + tc.registered + "@example.com"
		require.NoError(t, database.SaveProfile(email, `{"registeredMarket":"`+tc.registered+`"}`))

		p := store.Load(email)
		assert.Equal(t, tc.want, p.SelectedMarkets, tc.registered)
	}
}

func TestLoadMalformedProfileFallsBackToDefaults(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()

	require.NoError(t, database.SaveProfile("broken@example.com", "{not json"))

	p := store.Load("broken@example.com")
	assert.Empty(t, p.SelectedMarkets)
	assert.NotNil(t, p.MarketPreferences[types.MarketIndia])
}

func TestSaveMergesPartialUpdates(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "merge@example.com"

	_, err := store.Save(email, types.UserProfile{FirstName: "Priya", Country: "India"})
	require.NoError(t, err)

	p, err := store.Save(email, types.UserProfile{LastName: "Sharma"})
	require.NoError(t, err)

	assert.Equal(t, "Priya", p.FirstName)
	assert.Equal(t, "Sharma", p.LastName)
	assert.Equal(t, "India", p.Country)
}

func TestSaveMergesMarketPreferencesKeyWise(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "keywise@example.com"

	_, err := store.Save(email, types.UserProfile{
		MarketPreferences: map[string][]string{
			types.MarketIndia: {"Mean Reversion"},
		},
	})
	require.NoError(t, err)

	p, err := store.Save(email, types.UserProfile{
		MarketPreferences: map[string][]string{
			types.MarketUS: {"Pattern Formation"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Mean Reversion"}, p.MarketPreferences[types.MarketIndia])
	assert.Equal(t, []string{"Pattern Formation"}, p.MarketPreferences[types.MarketUS])
}

func TestLastWriteWins(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "race@example.com"

	_, err := store.UpdateMarketStrategies(email, types.MarketIndia, []string{"Mean Reversion"})
	require.NoError(t, err)
	_, err = store.UpdateMarketStrategies(email, types.MarketIndia, []string{"Pattern Formation"})
	require.NoError(t, err)

	// No merge between writers: the second write replaces the first.
	assert.Equal(t, []string{"Pattern Formation"}, store.GetMarketStrategies(email, types.MarketIndia))
}

func TestAddStrategiesIsSetUnion(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "union@example.com"

	_, err := store.AddStrategies(email, types.MarketUS, []string{"Mean Reversion", "Pattern Formation"})
	require.NoError(t, err)

	p, err := store.AddStrategies(email, types.MarketUS, []string{"Mean Reversion", "Cycle Count Reversal"})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Mean Reversion", "Pattern Formation", "Cycle Count Reversal"},
		p.MarketPreferences[types.MarketUS],
	)
}

func TestUpdateDedupesPreservingFirstSeenOrder(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()

	p, err := store.UpdateMarketStrategies("dupes@example.com", types.MarketIndia,
		[]string{"Mean Reversion", "Pattern Formation", "Mean Reversion"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Mean Reversion", "Pattern Formation"}, p.MarketPreferences[types.MarketIndia])
}

func TestRemoveStrategy(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "remove@example.com"

	_, err := store.UpdateMarketStrategies(email, types.MarketIndia, []string{"Mean Reversion", "Pattern Formation"})
	require.NoError(t, err)

	p, err := store.RemoveStrategy(email, types.MarketIndia, "Mean Reversion")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pattern Formation"}, p.MarketPreferences[types.MarketIndia])

	// Removing an absent name is a no-op.
	p, err = store.RemoveStrategy(email, types.MarketIndia, "Astrology")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pattern Formation"}, p.MarketPreferences[types.MarketIndia])
}

func TestUnlockMarket(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "unlock@example.com"

	require.NoError(t, database.SaveProfile(email, `{"registeredMarket":"India"}`))

	p, err := store.UnlockMarket(email, types.MarketUS, []string{"Mean Reversion"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{types.MarketIndia, types.MarketUS}, p.SelectedMarkets)
	assert.Equal(t, []string{"Mean Reversion"}, p.MarketPreferences[types.MarketUS])
	// The legacy flag cannot describe a two-market access list.
	assert.Empty(t, p.RegisteredMarket)
}

func TestUnlockAlreadyOpenMarketIsNoOp(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "reunlock@example.com"

	_, err := store.UnlockMarket(email, types.MarketIndia, []string{"Mean Reversion"})
	require.NoError(t, err)

	p, err := store.UnlockMarket(email, types.MarketIndia, []string{"Pattern Formation"})
	require.NoError(t, err)

	assert.Equal(t, []string{types.MarketIndia}, p.SelectedMarkets)
	assert.Equal(t, []string{"Mean Reversion"}, p.MarketPreferences[types.MarketIndia])
}

func TestRequireMarketAccess(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "guard@example.com"

	_, err := store.UnlockMarket(email, types.MarketIndia, nil)
	require.NoError(t, err)

	granted := store.RequireMarketAccess(email, types.MarketIndia, "/live-alerts")
	assert.True(t, granted.HasAccess)
	assert.Equal(t, "India", granted.MarketName)

	denied := store.RequireMarketAccess(email, types.MarketUS, "/live-alerts-us")
	assert.False(t, denied.HasAccess)
	assert.Equal(t, "/profile?tab=manage-markets&unlock=us", denied.RedirectTo)

	pending := store.PendingRedirect(email)
	require.NotNil(t, pending)
	assert.Equal(t, types.MarketUS, pending.Market)
	assert.Equal(t, "/live-alerts-us", pending.OriginalPath)

	store.ClearRedirect(email)
	assert.Nil(t, store.PendingRedirect(email))
}

func TestChangeEventsPublished(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	changes := store.Subscribe()

	_, err := store.UpdateMarketStrategies("events@example.com", types.MarketIndia, []string{"Mean Reversion"})
	require.NoError(t, err)

	select {
	case c := <-changes:
		assert.Equal(t, "events@example.com", c.Email)
		assert.Equal(t, types.MarketIndia, c.Market)
		assert.Equal(t, "strategies", c.Field)
		assert.Equal(t, []string{"Mean Reversion"}, c.Strategies)
	case <-time.After(time.Second):
		t.Fatal("no change event received")
	}
}

func TestClear(t *testing.T) {
	setupDB(t)
	store := preferences.NewStore()
	email := "clear@example.com"

	_, err := store.UpdateMarketStrategies(email, types.MarketIndia, []string{"Mean Reversion"})
	require.NoError(t, err)
	store.RequireMarketAccess(email, types.MarketUS, "/live-alerts-us")

	require.NoError(t, store.Clear(email))

	assert.Empty(t, store.GetMarketStrategies(email, types.MarketIndia))
	assert.Nil(t, store.PendingRedirect(email))
}

func TestMarketName(t *testing.T) {
	assert.Equal(t, "India", preferences.MarketName(types.MarketIndia))
	assert.Equal(t, "US", preferences.MarketName(types.MarketUS))
	assert.Equal(t, "mars", preferences.MarketName("mars"))
}
