package types

// Market identifiers used as keys in MarketPreferences and SelectedMarkets.
const (
	MarketIndia = "india"
	MarketUS    = "us"
)

// User is an account row. Plan survives logout on purpose, see session package.
type User struct {
	ID                   int64  `json:"id"`
	Email                string `json:"email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Country              string `json:"country"`
	Plan                 string `json:"plan"` // "premium" or ""
	RegistrationComplete bool   `json:"registration_complete"`
	CreatedAt            string `json:"created_at"`
}

// Session is an issued auth token. The token is opaque, no expiry is enforced.
type Session struct {
	Token              string `json:"token"`
	Email              string `json:"email"`
	RedirectAfterLogin string `json:"redirect_after_login,omitempty"`
	CreatedAt          string `json:"created_at"`
}

// UserProfile is the preference record for one account.
// RegisteredMarket is the legacy single-market flag set at registration;
// SelectedMarkets is the current market access list derived from it.
type UserProfile struct {
	Email             string              `json:"email"`
	FirstName         string              `json:"firstName"`
	LastName          string              `json:"lastName"`
	Country           string              `json:"country"`
	RegisteredMarket  string              `json:"registeredMarket,omitempty"` // "India" | "US" | "Both" | ""
	SelectedMarkets   []string            `json:"selectedMarkets"`
	MarketPreferences map[string][]string `json:"marketPreferences"`
}

// LockedRedirect records where a user tried to go before hitting a locked market.
type LockedRedirect struct {
	Market       string `json:"market"`
	OriginalPath string `json:"originalPath"`
	Timestamp    int64  `json:"timestamp"`
}

// AlertRecord is one row of the sample feed. Prices and times are display
// strings, exactly as they are presented.
type AlertRecord struct {
	Stock     string `json:"stock"`
	Type      string `json:"type"`
	Price     string `json:"price"`
	Change    string `json:"change"`
	RSI       string `json:"rsi"`
	RSIStatus string `json:"rsiStatus"`
	News      string `json:"news"`
	Chart     string `json:"chart"`
	Time      string `json:"time"`
	Strategy  string `json:"strategy"`
}

// Change is published on the preference bus after every successful write.
type Change struct {
	Email      string   `json:"email"`
	Market     string   `json:"market,omitempty"`
	Field      string   `json:"field"` // "strategies", "markets", "profile", "clear"
	Strategies []string `json:"strategies,omitempty"`
}

// ContactMessage is a stored contact-us submission.
type ContactMessage struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}
