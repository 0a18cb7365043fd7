package countries

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Country is a lookup suggestion offered on the registration form.
type Country struct {
	Name string `json:"name"`
	Flag string `json:"flag"`
}

// fallbackCountries is served whenever the upstream lookup fails.
var fallbackCountries = []Country{
	{Name: "United States", Flag: "🇺🇸"},
	{Name: "United Kingdom", Flag: "🇬🇧"},
	{Name: "Canada", Flag: "🇨🇦"},
	{Name: "Australia", Flag: "🇦🇺"},
	{Name: "India", Flag: "🇮🇳"},
	{Name: "Germany", Flag: "🇩🇪"},
	{Name: "France", Flag: "🇫🇷"},
	{Name: "Japan", Flag: "🇯🇵"},
	{Name: "China", Flag: "🇨🇳"},
	{Name: "Brazil", Flag: "🇧🇷"},
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup queries restcountries for name suggestions. Queries shorter than
// two characters return nothing; any upstream failure falls back to the
// static list, filtered the same way.
func (c *Client) Lookup(query string) []Country {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []Country{}
	}

	apiURL := fmt.Sprintf("%s/name/%s?fields=name,flags,cca2", c.BaseURL, url.PathEscape(query))
	resp, err := c.HTTPClient.Get(apiURL)
	if err != nil {
		log.Errorf("country lookup failed: %v", err)
		return filterFallback(query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debugf("country lookup returned status %d", resp.StatusCode)
		return filterFallback(query)
	}

	var entries []struct {
		Name struct {
			Common string `json:"common"`
		} `json:"name"`
		CCA2  string `json:"cca2"`
		Flags struct {
			Emoji string `json:"emoji"`
		} `json:"flags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		log.Errorf("failed to parse country lookup response: %v", err)
		return filterFallback(query)
	}

	lower := strings.ToLower(query)
	suggestions := make([]Country, 0, len(entries))
	for _, e := range entries {
		if !strings.Contains(strings.ToLower(e.Name.Common), lower) {
			continue
		}
		suggestions = append(suggestions, Country{
			Name: e.Name.Common,
			Flag: flagEmoji(e.CCA2, e.Flags.Emoji),
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Name < suggestions[j].Name
	})
	if len(suggestions) > 10 {
		suggestions = suggestions[:10]
	}
	return suggestions
}

// flagEmoji builds the regional-indicator flag from a two-letter code.
func flagEmoji(cca2, fallback string) string {
	if len(cca2) != 2 {
		if fallback != "" {
			return fallback
		}
		return "🌐"
	}
	runes := []rune{}
	for _, c := range strings.ToUpper(cca2) {
		runes = append(runes, rune(0x1F1A5+int(c)))
	}
	return string(runes)
}

func filterFallback(query string) []Country {
	lower := strings.ToLower(query)
	out := make([]Country, 0, len(fallbackCountries))
	for _, c := range fallbackCountries {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			out = append(out, c)
		}
	}
	return out
}
