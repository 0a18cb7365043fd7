package preferences

import (
	"encoding/json"
	"time"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/metrics"
	"aifinverse-backend/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Markets a profile can hold preferences for.
var knownMarkets = []string{types.MarketIndia, types.MarketUS}

// Store is the single writer for user preference state. All mutations
// re-serialize the whole profile and publish a typed change event, so every
// reader sees the same last-write-wins outcome. Uncoordinated concurrent
// writers are allowed; the store serializes them but does not merge them.
type Store struct {
	bus *Bus
}

func NewStore() *Store {
	return &Store{bus: NewBus()}
}

// Subscribe returns a channel of change events. See Bus.Subscribe.
func (s *Store) Subscribe() <-chan types.Change {
	return s.bus.Subscribe()
}

func defaultProfile(email string) types.UserProfile {
	return types.UserProfile{
		Email:           email,
		SelectedMarkets: []string{},
		MarketPreferences: map[string][]string{
			types.MarketIndia: {},
			types.MarketUS:    {},
		},
	}
}

// Load fetches the profile for an account, filling defaults for missing keys
// and migrating the legacy single registered-market flag into the market
// access list. A malformed stored blob is logged and replaced with defaults
// rather than surfaced.
func (s *Store) Load(email string) types.UserProfile {
	raw, err := database.GetProfile(email)
	if err != nil {
		log.Errorf("failed to load profile for %s: %v", email, err)
		return defaultProfile(email)
	}
	if raw == "" {
		return defaultProfile(email)
	}

	var p types.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Errorf("malformed profile for %s, falling back to defaults: %v", email, err)
		return defaultProfile(email)
	}

	p.Email = email
	return normalize(p)
}

// normalize fills missing keys and derives SelectedMarkets from the legacy
// RegisteredMarket flag when one is set.
func normalize(p types.UserProfile) types.UserProfile {
	if p.MarketPreferences == nil {
		p.MarketPreferences = map[string][]string{}
	}
	for _, m := range knownMarkets {
		if p.MarketPreferences[m] == nil {
			p.MarketPreferences[m] = []string{}
		}
	}

	switch p.RegisteredMarket {
	case "India":
		p.SelectedMarkets = []string{types.MarketIndia}
	case "US":
		p.SelectedMarkets = []string{types.MarketUS}
	case "Both":
		p.SelectedMarkets = []string{types.MarketIndia, types.MarketUS}
	default:
		if p.SelectedMarkets == nil {
			p.SelectedMarkets = []string{}
		}
	}

	return p
}

func (s *Store) persist(p types.UserProfile, c types.Change) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "could not serialize profile")
	}
	if err := database.SaveProfile(p.Email, string(raw)); err != nil {
		return errors.Wrap(err, "could not persist profile")
	}
	if c.Market != "" {
		metrics.Default().StrategiesPerMarket.WithLabelValues(c.Market).Set(float64(len(c.Strategies)))
	}
	s.bus.Publish(c)
	return nil
}

// Save applies a partial update with merge semantics: scalar fields overwrite
// when non-empty, MarketPreferences merge key-wise. The whole profile is
// re-serialized afterwards.
func (s *Store) Save(email string, updates types.UserProfile) (types.UserProfile, error) {
	current := s.Load(email)

	if updates.FirstName != "" {
		current.FirstName = updates.FirstName
	}
	if updates.LastName != "" {
		current.LastName = updates.LastName
	}
	if updates.Country != "" {
		current.Country = updates.Country
	}
	if updates.RegisteredMarket != "" {
		current.RegisteredMarket = updates.RegisteredMarket
	}
	if updates.SelectedMarkets != nil {
		current.SelectedMarkets = updates.SelectedMarkets
	}
	for market, strategies := range updates.MarketPreferences {
		current.MarketPreferences[market] = dedupe(strategies)
	}

	current = normalize(current)
	err := s.persist(current, types.Change{Email: email, Field: "profile"})
	return current, err
}

// HasMarketAccess reports whether the market is in the access list.
func (s *Store) HasMarketAccess(email, market string) bool {
	p := s.Load(email)
	for _, m := range p.SelectedMarkets {
		if m == market {
			return true
		}
	}
	return false
}

// AccessCheck is the outcome of RequireMarketAccess.
type AccessCheck struct {
	HasAccess  bool
	RedirectTo string
	MarketName string
}

// RequireMarketAccess checks access and, when it is missing, records where
// the visitor was headed and returns the unlock redirect.
func (s *Store) RequireMarketAccess(email, market, currentPath string) AccessCheck {
	name := MarketName(market)

	if s.HasMarketAccess(email, market) {
		return AccessCheck{HasAccess: true, MarketName: name}
	}

	r := types.LockedRedirect{
		Market:       market,
		OriginalPath: currentPath,
		Timestamp:    time.Now().UnixMilli(),
	}
	if err := database.SaveLockedRedirect(email, r); err != nil {
		log.Errorf("failed to record locked redirect for %s: %v", email, err)
	}

	return AccessCheck{
		HasAccess:  false,
		RedirectTo: "/profile?tab=manage-markets&unlock=" + market,
		MarketName: name,
	}
}

// UnlockMarket appends a market to the access list and seeds its strategies.
// Unlocking an already-open market is a no-op.
func (s *Store) UnlockMarket(email, market string, strategies []string) (types.UserProfile, error) {
	current := s.Load(email)

	for _, m := range current.SelectedMarkets {
		if m == market {
			return current, nil
		}
	}

	current.SelectedMarkets = append(current.SelectedMarkets, market)
	current.MarketPreferences[market] = dedupe(strategies)
	// The legacy flag no longer describes the access list once a second
	// market opens.
	current.RegisteredMarket = ""

	err := s.persist(current, types.Change{
		Email:      email,
		Market:     market,
		Field:      "markets",
		Strategies: current.MarketPreferences[market],
	})
	return current, err
}

// GetMarketStrategies returns the strategy list for one market.
func (s *Store) GetMarketStrategies(email, market string) []string {
	p := s.Load(email)
	return p.MarketPreferences[market]
}

// UpdateMarketStrategies replaces the strategy list for one market,
// suppressing duplicates while preserving first-seen order.
func (s *Store) UpdateMarketStrategies(email, market string, strategies []string) (types.UserProfile, error) {
	current := s.Load(email)
	current.MarketPreferences[market] = dedupe(strategies)

	err := s.persist(current, types.Change{
		Email:      email,
		Market:     market,
		Field:      "strategies",
		Strategies: current.MarketPreferences[market],
	})
	return current, err
}

// AddStrategies set-unions new strategy names into a market's list. Adding a
// name that is already present leaves a single entry.
func (s *Store) AddStrategies(email, market string, strategies []string) (types.UserProfile, error) {
	current := s.Load(email)
	merged := dedupe(append(current.MarketPreferences[market], strategies...))
	return s.UpdateMarketStrategies(email, market, merged)
}

// RemoveStrategy drops one strategy name from a market's list. Removing an
// absent name is a no-op.
func (s *Store) RemoveStrategy(email, market, strategy string) (types.UserProfile, error) {
	current := s.Load(email)

	kept := make([]string, 0, len(current.MarketPreferences[market]))
	for _, name := range current.MarketPreferences[market] {
		if name != strategy {
			kept = append(kept, name)
		}
	}
	return s.UpdateMarketStrategies(email, market, kept)
}

// Clear removes the profile and any pending redirect.
func (s *Store) Clear(email string) error {
	if err := database.DeleteProfile(email); err != nil {
		return errors.Wrap(err, "could not clear profile")
	}
	s.bus.Publish(types.Change{Email: email, Field: "clear"})
	return nil
}

// PendingRedirect returns the recorded locked-market redirect, nil when none.
func (s *Store) PendingRedirect(email string) *types.LockedRedirect {
	r, err := database.GetLockedRedirect(email)
	if err != nil {
		log.Errorf("failed to load locked redirect for %s: %v", email, err)
		return nil
	}
	return r
}

// ClearRedirect drops the recorded redirect.
func (s *Store) ClearRedirect(email string) {
	if err := database.DeleteLockedRedirect(email); err != nil {
		log.Errorf("failed to clear locked redirect for %s: %v", email, err)
	}
}

// MarketName maps a market id to its display name.
func MarketName(market string) string {
	switch market {
	case types.MarketIndia:
		return "India"
	case types.MarketUS:
		return "US"
	}
	return market
}

func dedupe(strategies []string) []string {
	seen := make(map[string]struct{}, len(strategies))
	out := make([]string, 0, len(strategies))
	for _, s := range strategies {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
