package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/guard"
	"aifinverse-backend/internal/registration"
	"aifinverse-backend/internal/session"
	"aifinverse-backend/internal/telegram"
	"aifinverse-backend/internal/types"
	"aifinverse-backend/lib/translation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (s *Server) handleRegisterPreference(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, translation.Translate("Could not read request."))
		return
	}

	p, err := decodePreferencePayload(body)
	if err != nil {
		writeValidationError(w, fieldError("body", translation.Translate("Unrecognized preference payload.")))
		return
	}

	token := p.Token
	if token == "" && p.Email != "" {
		if wizard := s.registrar.FindByEmail(p.Email); wizard != nil {
			token = wizard.Token
		}
	}
	if token == "" {
		writeMessage(w, http.StatusNotFound, translation.Translate("No registration in progress. Please start over."))
		return
	}

	wizard, err := s.registrar.SubmitMarketAndAlerts(token, p.Market, p.Strategies, p.TermsAccepted)
	switch err {
	case nil:
	case registration.ErrUnknownRegistration:
		writeMessage(w, http.StatusNotFound, translation.Translate("No registration in progress. Please start over."))
		return
	case registration.ErrWrongStep:
		writeMessage(w, http.StatusConflict, translation.Translate("Registration already completed."))
		return
	case registration.ErrNoMarket, registration.ErrNoStrategies, registration.ErrTermsNotAccepted:
		writeValidationError(w, fieldError("body", err.Error()))
		return
	default:
		serverError(w, err)
		return
	}

	s.metrics.RegistrationsTotal.Inc()
	profile := s.store.Load(wizard.Email)

	resp := map[string]any{
		"message": translation.Translate("Registration complete. Welcome to AIFinverse."),
		"profile": profile,
	}
	// The welcome page is behind the guard; hand over a session so the new
	// user lands there logged in.
	if sess, err := session.Issue(wizard.Email); err != nil {
		log.Errorf("could not auto-login %s after registration: %v", wizard.Email, err)
	} else {
		resp["token"] = sess.Token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := guard.SessionFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Not logged in."))
		return
	}

	profile := s.store.Load(sess.Email)

	resp := map[string]any{
		"profile": profile,
		"plan":    session.Plan(sess.Email),
	}
	if pending := s.store.PendingRedirect(sess.Email); pending != nil {
		resp["locked_redirect"] = pending
	}
	writeJSON(w, http.StatusOK, resp)
}

// profileUpdateRequest carries a partial profile update. UnlockMarket opens
// one more market; the other fields merge into the stored profile.
type profileUpdateRequest struct {
	FirstName         string              `json:"firstName"`
	LastName          string              `json:"lastName"`
	Country           string              `json:"country"`
	SelectedMarkets   []string            `json:"selectedMarkets"`
	MarketPreferences map[string][]string `json:"marketPreferences"`
	UnlockMarket      string              `json:"unlockMarket"`
	UnlockStrategies  []string            `json:"unlockStrategies"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := guard.SessionFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Not logged in."))
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fieldError("body", translation.Translate("Invalid input.")))
		return
	}

	if req.UnlockMarket != "" {
		market, ok := marketID(req.UnlockMarket)
		if !ok {
			writeValidationError(w, fieldError("unlockMarket", translation.Translate("Unknown market.")))
			return
		}

		profile, err := s.store.UnlockMarket(sess.Email, market, req.UnlockStrategies)
		if err != nil {
			serverError(w, err)
			return
		}

		resp := map[string]any{
			"message": translation.Translate("Market unlocked."),
			"profile": profile,
		}
		// Send the visitor back to wherever the locked route bounced them from.
		if pending := s.store.PendingRedirect(sess.Email); pending != nil && pending.Market == market {
			resp["redirect_to"] = pending.OriginalPath
			s.store.ClearRedirect(sess.Email)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	profile, err := s.store.Save(sess.Email, types.UserProfile{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Country:           req.Country,
		SelectedMarkets:   req.SelectedMarkets,
		MarketPreferences: req.MarketPreferences,
	})
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": translation.Translate("Profile updated."),
		"profile": profile,
	})
}

// handleTelegramLink mints a one-shot deep-link code binding the visitor's
// account to whichever telegram chat opens the link.
func (s *Server) handleTelegramLink(w http.ResponseWriter, r *http.Request) {
	sess, ok := guard.SessionFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Not logged in."))
		return
	}

	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := database.SaveLinkCode(code, sess.Email); err != nil {
		serverError(w, err)
		return
	}

	log.Debugf("issued telegram link code for %s", sess.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"link": telegram.DeepLink(s.botName, code),
	})
}

// marketID maps any accepted spelling to the canonical market id.
func marketID(market string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(market)) {
	case types.MarketIndia:
		return types.MarketIndia, true
	case types.MarketUS:
		return types.MarketUS, true
	}
	return "", false
}
