package registration

import (
	"database/sql"
	"strings"
	"sync"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/preferences"
	"aifinverse-backend/internal/types"
	"aifinverse-backend/lib/helpers"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Step is the wizard state.
type Step int

const (
	StepAccountDetails Step = iota
	StepMarketAndAlerts
	StepWelcome
)

var (
	ErrInvalidFirstName    = errors.New("please enter a valid first name (letters only, min 2 characters)")
	ErrInvalidLastName     = errors.New("please enter a valid last name (letters only, min 2 characters)")
	ErrInvalidEmail        = errors.New("please enter a valid email address (e.g., name@example.com)")
	ErrInvalidCountry      = errors.New("please enter your country")
	ErrInvalidPassword     = errors.New("password must be at least 8 characters and include one uppercase letter, one lowercase letter and one number")
	ErrPasswordMismatch    = errors.New("password and confirm password do not match")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrNoMarket            = errors.New("please select a market")
	ErrNoStrategies        = errors.New("please select at least one strategy")
	ErrTermsNotAccepted    = errors.New("please accept the terms to continue")
	ErrWrongStep           = errors.New("registration step out of order")
	ErrUnknownRegistration = errors.New("unknown registration token")
)

// AccountDetails is the step-1 form.
type AccountDetails struct {
	FirstName       string
	LastName        string
	Email           string
	Country         string
	Password        string
	ConfirmPassword string
}

// Wizard tracks one in-flight registration. The flow is strictly
// sequential: account details, then market and strategies, then welcome.
// There is no rollback; an account created in step 1 survives a failed
// step 2.
type Wizard struct {
	Token string
	Email string
	Step  Step
}

// Registrar owns in-flight wizards, keyed by the registration token handed
// to the client after step 1.
type Registrar struct {
	mu      sync.Mutex
	wizards map[string]*Wizard
	store   *preferences.Store
}

func NewRegistrar(store *preferences.Store) *Registrar {
	return &Registrar{
		wizards: make(map[string]*Wizard),
		store:   store,
	}
}

// Validate applies the step-1 form checks without touching storage.
func (d AccountDetails) Validate() error {
	if !helpers.IsValidName(d.FirstName) {
		return ErrInvalidFirstName
	}
	if !helpers.IsValidName(d.LastName) {
		return ErrInvalidLastName
	}
	if !helpers.IsValidEmail(d.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(d.Country) == "" {
		return ErrInvalidCountry
	}
	if !helpers.IsValidPassword(d.Password) {
		return ErrInvalidPassword
	}
	if d.Password != d.ConfirmPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// SubmitAccountDetails runs step 1: validate, create the account, open a
// wizard and return its token.
func (r *Registrar) SubmitAccountDetails(d AccountDetails) (*Wizard, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(d.Email))

	if _, err := database.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, errors.Wrap(err, "could not check for existing account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "could not hash password")
	}

	if _, err := database.InsertUser(email, strings.TrimSpace(d.FirstName), strings.TrimSpace(d.LastName), strings.TrimSpace(d.Country), string(hash)); err != nil {
		return nil, errors.Wrap(err, "could not create account")
	}

	w := &Wizard{
		Token: uuid.NewString(),
		Email: email,
		Step:  StepMarketAndAlerts,
	}

	r.mu.Lock()
	r.wizards[w.Token] = w
	r.mu.Unlock()

	return w, nil
}

// SubmitMarketAndAlerts runs step 2: persist the market choice and strategy
// selection, mark registration complete and advance to welcome. When the
// completion flag cannot be written the preference data is still saved and
// the wizard proceeds with a warning; the step-1 account is never rolled
// back.
func (r *Registrar) SubmitMarketAndAlerts(token, market string, strategies []string, termsAccepted bool) (*Wizard, error) {
	r.mu.Lock()
	w, ok := r.wizards[token]
	r.mu.Unlock()
	if !ok {
		return nil, ErrUnknownRegistration
	}
	if w.Step != StepMarketAndAlerts {
		return w, ErrWrongStep
	}

	if market != "India" && market != "US" && market != "Both" {
		return w, ErrNoMarket
	}
	if len(strategies) == 0 {
		return w, ErrNoStrategies
	}
	if !termsAccepted {
		return w, ErrTermsNotAccepted
	}

	user, err := database.GetUserByEmail(w.Email)
	if err != nil {
		return w, errors.Wrap(err, "could not load account")
	}

	profile := types.UserProfile{
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Country:          user.Country,
		RegisteredMarket: market,
		MarketPreferences: map[string][]string{
			types.MarketIndia: marketStrategies(market, "India", strategies),
			types.MarketUS:    marketStrategies(market, "US", strategies),
		},
	}

	if _, err := r.store.Save(w.Email, profile); err != nil {
		return w, errors.Wrap(err, "could not save preferences")
	}

	if err := database.SetRegistrationComplete(w.Email, true); err != nil {
		// The preferences made it to storage; finish the wizard anyway.
		log.Warnf("preferences saved but completion flag failed for %s: %v", w.Email, err)
	}

	w.Step = StepWelcome

	r.mu.Lock()
	delete(r.wizards, token)
	r.mu.Unlock()

	return w, nil
}

// Lookup returns the wizard for a token, nil when none is in flight.
func (r *Registrar) Lookup(token string) *Wizard {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wizards[token]
}

// FindByEmail returns the in-flight wizard for an email, nil when none.
// Some clients lose the registration token between steps and retry step 2
// with only the email.
func (r *Registrar) FindByEmail(email string) *Wizard {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wizards {
		if w.Email == email {
			return w
		}
	}
	return nil
}

// marketStrategies seeds one market's list: the chosen strategies when the
// market was selected at registration, empty otherwise.
func marketStrategies(chosen, market string, strategies []string) []string {
	if chosen == market || chosen == "Both" {
		return strategies
	}
	return []string{}
}
