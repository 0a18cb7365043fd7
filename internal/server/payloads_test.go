package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRegisterPayloadShapes(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		shape registerShape
	}{
		{
			"snake_case",
			`{"first_name":"Priya","last_name":"Sharma","email":"p@example.com","country":"India","password":"Secret123","confirm_password":"Secret123"}`,
			shapeSnake,
		},
		{
			"camelCase",
			`{"firstName":"Priya","lastName":"Sharma","email":"p@example.com","country":"India","password":"Secret123","confirmPassword":"Secret123"}`,
			shapeCamel,
		},
		{
			"username",
			`{"username":"priya","first_name":"Priya","last_name":"Sharma","email":"p@example.com","country":"India","password":"Secret123"}`,
			shapeUsername,
		},
		{
			"minimal",
			`{"full_name":"Priya Sharma","email":"p@example.com","country":"India","password":"Secret123"}`,
			shapeMinimal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, shape, err := decodeRegisterPayload([]byte(tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.shape, shape)
			assert.Equal(t, "Priya", d.FirstName)
			assert.Equal(t, "Sharma", d.LastName)
			assert.Equal(t, "p@example.com", d.Email)
			assert.Equal(t, "Secret123", d.Password)
			assert.Equal(t, "Secret123", d.ConfirmPassword)
		})
	}
}

func TestDecodeRegisterPayloadRejectsUnknownShape(t *testing.T) {
	_, _, err := decodeRegisterPayload([]byte(`{"email":"p@example.com"}`))
	assert.Error(t, err)

	_, _, err = decodeRegisterPayload([]byte(`{broken`))
	assert.Error(t, err)
}

func TestDecodePreferencePayloadShapes(t *testing.T) {
	p, err := decodePreferencePayload([]byte(
		`{"token":"t1","market":"india","strategies":["Mean Reversion"]}`))
	require.NoError(t, err)
	assert.Equal(t, "t1", p.Token)
	assert.Equal(t, "India", p.Market)
	assert.Equal(t, []string{"Mean Reversion"}, p.Strategies)
	assert.True(t, p.TermsAccepted)

	p, err = decodePreferencePayload([]byte(
		`{"selected_market":"US","selected_strategies":["Pattern Formation"],"user_email":"P@Example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "US", p.Market)
	assert.Equal(t, "p@example.com", p.Email)
	assert.Equal(t, []string{"Pattern Formation"}, p.Strategies)

	p, err = decodePreferencePayload([]byte(
		`{"market":"both","alert_types":["Mean Reversion","Cycle Count Reversal"],"email":"p@example.com"}`))
	require.NoError(t, err)
	assert.Equal(t, "Both", p.Market)
	assert.Len(t, p.Strategies, 2)
}

func TestDecodePreferencePayloadHonorsExplicitTerms(t *testing.T) {
	p, err := decodePreferencePayload([]byte(
		`{"token":"t1","market":"India","strategies":["Mean Reversion"],"terms_accepted":false}`))
	require.NoError(t, err)
	assert.False(t, p.TermsAccepted)
}

func TestDecodePreferencePayloadRejectsUnknownShape(t *testing.T) {
	_, err := decodePreferencePayload([]byte(`{"token":"t1"}`))
	assert.Error(t, err)
}

func TestNormalizeMarket(t *testing.T) {
	assert.Equal(t, "India", normalizeMarket("india"))
	assert.Equal(t, "US", normalizeMarket(" us "))
	assert.Equal(t, "Both", normalizeMarket("BOTH"))
	assert.Equal(t, "Europe", normalizeMarket("Europe"))
}

func TestSplitFullName(t *testing.T) {
	first, last := splitFullName("Priya Sharma")
	assert.Equal(t, "Priya", first)
	assert.Equal(t, "Sharma", last)

	first, last = splitFullName("Priya")
	assert.Equal(t, "Priya", first)
	assert.Empty(t, last)

	first, last = splitFullName("Anne Marie van der Berg")
	assert.Equal(t, "Anne", first)
	assert.Equal(t, "Marie van der Berg", last)

	first, last = splitFullName("  ")
	assert.Empty(t, first)
	assert.Empty(t, last)
}
