package countries_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"aifinverse-backend/internal/countries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupShortQueryReturnsNothing(t *testing.T) {
	c := countries.NewClient("http://127.0.0.1:1")

	assert.Empty(t, c.Lookup(""))
	assert.Empty(t, c.Lookup("i"))
	assert.Empty(t, c.Lookup("  i  "))
}

func TestLookupParsesUpstreamResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/name/ind", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name":{"common":"India"},"cca2":"IN","flags":{}},
			{"name":{"common":"Indonesia"},"cca2":"ID","flags":{}},
			{"name":{"common":"France"},"cca2":"FR","flags":{}}
		]`))
	}))
	defer ts.Close()

	c := countries.NewClient(ts.URL)
	got := c.Lookup("ind")

	// France does not contain the query and is dropped; results are sorted.
	require.Len(t, got, 2)
	assert.Equal(t, "India", got[0].Name)
	assert.Equal(t, "🇮🇳", got[0].Flag)
	assert.Equal(t, "Indonesia", got[1].Name)
	assert.Equal(t, "🇮🇩", got[1].Flag)
}

func TestLookupCapsSuggestionsAtTen(t *testing.T) {
	names := []string{
		"Albania", "Algeria", "Armenia", "Australia", "Austria", "Bolivia",
		"Bulgaria", "Cambodia", "Colombia", "Croatia", "Estonia", "Ethiopia",
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := `[`
		for i, n := range names {
			if i > 0 {
				body += ","
			}
			body += `{"name":{"common":"` + n + `"},"cca2":"AX","flags":{}}`
		}
		body += `]`
		w.Write([]byte(body))
	}))
	defer ts.Close()

	c := countries.NewClient(ts.URL)
	assert.Len(t, c.Lookup("ia"), 10)
}

func TestLookupFallsBackWhenUpstreamFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := countries.NewClient(ts.URL)
	got := c.Lookup("united")

	require.Len(t, got, 2)
	assert.Equal(t, "United States", got[0].Name)
	assert.Equal(t, "United Kingdom", got[1].Name)
}

func TestLookupFallsBackWhenUpstreamUnreachable(t *testing.T) {
	c := countries.NewClient("http://127.0.0.1:1")

	got := c.Lookup("india")
	require.Len(t, got, 1)
	assert.Equal(t, "India", got[0].Name)
	assert.Equal(t, "🇮🇳", got[0].Flag)
}

func TestLookupFallsBackOnMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	c := countries.NewClient(ts.URL)
	got := c.Lookup("japan")

	require.Len(t, got, 1)
	assert.Equal(t, "Japan", got[0].Name)
}
