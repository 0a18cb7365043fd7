package server

import (
	"encoding/json"
	"strings"

	"aifinverse-backend/internal/registration"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// The web client historically probed several payload shapes against the
// registration endpoints until one stuck. The server now owns the contract:
// every shape the client ever sent is decoded into one canonical form here,
// and anything else is a 422, not something to probe around.

// registerShape names which historical client shape a request matched.
type registerShape string

const (
	shapeSnake    registerShape = "snake_case"
	shapeCamel    registerShape = "camelCase"
	shapeUsername registerShape = "username"
	shapeMinimal  registerShape = "minimal"
)

type registerRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	FirstNameC string `json:"firstName"`
	LastNameC  string `json:"lastName"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Country    string `json:"country"`
	Password   string `json:"password"`
	Confirm    string `json:"confirm_password"`
	ConfirmC   string `json:"confirmPassword"`
}

// decodeRegisterPayload normalizes any of the four historical /register
// shapes into step-1 account details.
func decodeRegisterPayload(body []byte) (registration.AccountDetails, registerShape, error) {
	var req registerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return registration.AccountDetails{}, "", errors.Wrap(err, "malformed register payload")
	}

	var d registration.AccountDetails
	var shape registerShape

	switch {
	case req.FirstName != "" && req.Username == "":
		shape = shapeSnake
		d = registration.AccountDetails{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			Country:         req.Country,
			Password:        req.Password,
			ConfirmPassword: req.Confirm,
		}
	case req.FirstNameC != "":
		shape = shapeCamel
		d = registration.AccountDetails{
			FirstName:       req.FirstNameC,
			LastName:        req.LastNameC,
			Email:           req.Email,
			Country:         req.Country,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmC,
		}
	case req.Username != "":
		shape = shapeUsername
		d = registration.AccountDetails{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           req.Email,
			Country:         req.Country,
			Password:        req.Password,
			ConfirmPassword: req.Password,
		}
	case req.FullName != "":
		shape = shapeMinimal
		first, last := splitFullName(req.FullName)
		d = registration.AccountDetails{
			FirstName:       first,
			LastName:        last,
			Email:           req.Email,
			Country:         req.Country,
			Password:        req.Password,
			ConfirmPassword: req.Password,
		}
	default:
		return registration.AccountDetails{}, "", errors.New("unrecognized register payload shape")
	}

	log.Debugf("register payload matched shape %s: %s", shape, spew.Sdump(d.Email))
	return d, shape, nil
}

type preferenceRequest struct {
	Market      string   `json:"market"`
	Strategies  []string `json:"strategies"`
	SelMarket   string   `json:"selected_market"`
	SelStrat    []string `json:"selected_strategies"`
	AlertTypes  []string `json:"alert_types"`
	Token       string   `json:"token"`
	Email       string   `json:"email"`
	UserEmail   string   `json:"user_email"`
	Terms       *bool    `json:"terms_accepted"`
	Preferences *struct {
		Markets []string `json:"markets"`
		Alerts  []string `json:"alerts"`
	} `json:"preferences"`
}

// preferencePayload is the canonical step-2 submission.
type preferencePayload struct {
	Token         string
	Email         string
	Market        string
	Strategies    []string
	TermsAccepted bool
}

// decodePreferencePayload normalizes the three historical /register/preference
// shapes. Terms default to accepted: the client never submitted without the
// terms modal confirmed.
func decodePreferencePayload(body []byte) (preferencePayload, error) {
	var req preferenceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return preferencePayload{}, errors.Wrap(err, "malformed preference payload")
	}

	p := preferencePayload{
		Token:         req.Token,
		Email:         strings.ToLower(req.Email),
		TermsAccepted: true,
	}
	if req.Terms != nil {
		p.TermsAccepted = *req.Terms
	}

	var shape string
	switch {
	case req.Market != "" && len(req.Strategies) > 0:
		shape = "market+strategies"
		p.Market = normalizeMarket(req.Market)
		p.Strategies = req.Strategies
	case req.SelMarket != "":
		shape = "selected_*"
		p.Market = normalizeMarket(req.SelMarket)
		p.Strategies = req.SelStrat
		if p.Email == "" {
			p.Email = strings.ToLower(req.UserEmail)
		}
	case req.Market != "" && len(req.AlertTypes) > 0:
		shape = "alert_types"
		p.Market = normalizeMarket(req.Market)
		p.Strategies = req.AlertTypes
	default:
		return preferencePayload{}, errors.New("unrecognized preference payload shape")
	}

	log.Debugf("preference payload matched shape %s: %s", shape, spew.Sdump(p.Market))
	return p, nil
}

// normalizeMarket maps any historical casing to the canonical display value.
func normalizeMarket(market string) string {
	switch strings.ToLower(strings.TrimSpace(market)) {
	case "india":
		return "India"
	case "us":
		return "US"
	case "both":
		return "Both"
	}
	return strings.TrimSpace(market)
}

func splitFullName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
