package registration_test

import (
	"path/filepath"
	"testing"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/preferences"
	"aifinverse-backend/internal/registration"
	"aifinverse-backend/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *registration.Registrar {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { database.CloseDB() })
	return registration.NewRegistrar(preferences.NewStore())
}

func validDetails(email string) registration.AccountDetails {
	return registration.AccountDetails{
		FirstName:       "Priya",
		LastName:        "Sharma",
		Email:           email,
		Country:         "India",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
	}
}

func TestValidateAccountDetails(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*registration.AccountDetails)
		want   error
	}{
		{"short first name", func(d *registration.AccountDetails) { d.FirstName = "P" }, registration.ErrInvalidFirstName},
		{"numeric last name", func(d *registration.AccountDetails) { d.LastName = "Sharma3" }, registration.ErrInvalidLastName},
		{"bad email", func(d *registration.AccountDetails) { d.Email = "not-an-email" }, registration.ErrInvalidEmail},
		{"no country", func(d *registration.AccountDetails) { d.Country = "  " }, registration.ErrInvalidCountry},
		{"weak password", func(d *registration.AccountDetails) { d.Password = "secret"; d.ConfirmPassword = "secret" }, registration.ErrInvalidPassword},
		{"mismatch", func(d *registration.AccountDetails) { d.ConfirmPassword = "Secret124" }, registration.ErrPasswordMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDetails("v@example.com")
			tc.mutate(&d)
			assert.ErrorIs(t, d.Validate(), tc.want)
		})
	}

	assert.NoError(t, validDetails("v@example.com").Validate())
}

func TestSubmitAccountDetailsCreatesAccount(t *testing.T) {
	r := setup(t)

	w, err := r.SubmitAccountDetails(validDetails("New@Example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, w.Token)
	assert.Equal(t, "new@example.com", w.Email)
	assert.Equal(t, registration.StepMarketAndAlerts, w.Step)

	user, err := database.GetUserByEmail("new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Priya", user.FirstName)
	assert.False(t, user.RegistrationComplete)
}

func TestSubmitAccountDetailsRejectsDuplicateEmail(t *testing.T) {
	r := setup(t)

	_, err := r.SubmitAccountDetails(validDetails("dup@example.com"))
	require.NoError(t, err)

	_, err = r.SubmitAccountDetails(validDetails("dup@example.com"))
	assert.ErrorIs(t, err, registration.ErrEmailTaken)
}

func TestSubmitMarketAndAlertsCompletesRegistration(t *testing.T) {
	r := setup(t)
	store := preferences.NewStore()

	w, err := r.SubmitAccountDetails(validDetails("full@example.com"))
	require.NoError(t, err)

	w, err = r.SubmitMarketAndAlerts(w.Token, "India", []string{"Mean Reversion"}, true)
	require.NoError(t, err)
	assert.Equal(t, registration.StepWelcome, w.Step)

	user, err := database.GetUserByEmail("full@example.com")
	require.NoError(t, err)
	assert.True(t, user.RegistrationComplete)

	p := store.Load("full@example.com")
	assert.Equal(t, []string{types.MarketIndia}, p.SelectedMarkets)
	assert.Equal(t, []string{"Mean Reversion"}, p.MarketPreferences[types.MarketIndia])
	assert.Empty(t, p.MarketPreferences[types.MarketUS])
}

func TestSubmitMarketAndAlertsBothMarketsSeedBothLists(t *testing.T) {
	r := setup(t)
	store := preferences.NewStore()

	w, err := r.SubmitAccountDetails(validDetails("both@example.com"))
	require.NoError(t, err)

	_, err = r.SubmitMarketAndAlerts(w.Token, "Both", []string{"Pattern Formation"}, true)
	require.NoError(t, err)

	p := store.Load("both@example.com")
	assert.Equal(t, []string{types.MarketIndia, types.MarketUS}, p.SelectedMarkets)
	assert.Equal(t, []string{"Pattern Formation"}, p.MarketPreferences[types.MarketIndia])
	assert.Equal(t, []string{"Pattern Formation"}, p.MarketPreferences[types.MarketUS])
}

func TestSubmitMarketAndAlertsValidation(t *testing.T) {
	r := setup(t)

	w, err := r.SubmitAccountDetails(validDetails("step2@example.com"))
	require.NoError(t, err)

	_, err = r.SubmitMarketAndAlerts(w.Token, "Europe", []string{"Mean Reversion"}, true)
	assert.ErrorIs(t, err, registration.ErrNoMarket)

	_, err = r.SubmitMarketAndAlerts(w.Token, "India", nil, true)
	assert.ErrorIs(t, err, registration.ErrNoStrategies)

	_, err = r.SubmitMarketAndAlerts(w.Token, "India", []string{"Mean Reversion"}, false)
	assert.ErrorIs(t, err, registration.ErrTermsNotAccepted)
}

func TestSubmitMarketAndAlertsUnknownToken(t *testing.T) {
	r := setup(t)

	_, err := r.SubmitMarketAndAlerts("nope", "India", []string{"Mean Reversion"}, true)
	assert.ErrorIs(t, err, registration.ErrUnknownRegistration)
}

func TestWizardIsConsumedAfterCompletion(t *testing.T) {
	r := setup(t)

	w, err := r.SubmitAccountDetails(validDetails("once@example.com"))
	require.NoError(t, err)

	_, err = r.SubmitMarketAndAlerts(w.Token, "US", []string{"Mean Reversion"}, true)
	require.NoError(t, err)

	_, err = r.SubmitMarketAndAlerts(w.Token, "US", []string{"Mean Reversion"}, true)
	assert.ErrorIs(t, err, registration.ErrUnknownRegistration)
	assert.Nil(t, r.Lookup(w.Token))
}

func TestFindByEmail(t *testing.T) {
	r := setup(t)

	w, err := r.SubmitAccountDetails(validDetails("lost@example.com"))
	require.NoError(t, err)

	found := r.FindByEmail("lost@example.com")
	require.NotNil(t, found)
	assert.Equal(t, w.Token, found.Token)

	assert.Nil(t, r.FindByEmail("other@example.com"))
}
