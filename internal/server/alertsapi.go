package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"aifinverse-backend/internal/alerts"
	"aifinverse-backend/internal/guard"
	"aifinverse-backend/lib/translation"
)

// handleGetAlerts serves the filtered feed for one market. Access to a
// locked market is not an error page: the response carries the unlock
// redirect and the attempted path is recorded for the round trip back.
func (s *Server) handleGetAlerts(w http.ResponseWriter, r *http.Request) {
	sess, ok := guard.SessionFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Not logged in."))
		return
	}

	market, ok := marketID(r.PathValue("market"))
	if !ok {
		writeMessage(w, http.StatusNotFound, translation.Translate("Unknown market."))
		return
	}

	check := s.store.RequireMarketAccess(sess.Email, market, r.URL.Path)
	if !check.HasAccess {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"message":     translation.Translate("This market is locked for your account."),
			"redirect_to": check.RedirectTo,
		})
		return
	}

	var watchlist []string
	if q := strings.TrimSpace(r.URL.Query().Get("watchlist")); q != "" {
		watchlist = strings.Split(q, ",")
	}

	selected := s.store.GetMarketStrategies(sess.Email, market)
	visible := alerts.Visible(alerts.Catalog(market), selected, watchlist)

	writeJSON(w, http.StatusOK, map[string]any{
		"market":     check.MarketName,
		"strategies": selected,
		"available":  alerts.Available(selected),
		"alerts":     visible,
	})
}

type strategiesRequest struct {
	Strategies []string `json:"strategies"`
}

// handleAddStrategies set-unions new strategy names into the market's list.
func (s *Server) handleAddStrategies(w http.ResponseWriter, r *http.Request) {
	sess, ok := guard.SessionFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Not logged in."))
		return
	}

	market, ok := marketID(r.PathValue("market"))
	if !ok {
		writeMessage(w, http.StatusNotFound, translation.Translate("Unknown market."))
		return
	}

	var req strategiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Strategies) == 0 {
		writeValidationError(w, fieldError("strategies", translation.Translate("Select at least one strategy to add.")))
		return
	}

	profile, err := s.store.AddStrategies(sess.Email, market, req.Strategies)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"strategies": profile.MarketPreferences[market],
		"available":  alerts.Available(profile.MarketPreferences[market]),
	})
}

// handleRemoveStrategy drops one strategy from the market's list. Removing a
// name that is not there succeeds with the list unchanged.
func (s *Server) handleRemoveStrategy(w http.ResponseWriter, r *http.Request) {
	sess, ok := guard.SessionFrom(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Not logged in."))
		return
	}

	market, ok := marketID(r.PathValue("market"))
	if !ok {
		writeMessage(w, http.StatusNotFound, translation.Translate("Unknown market."))
		return
	}

	profile, err := s.store.RemoveStrategy(sess.Email, market, r.PathValue("name"))
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"strategies": profile.MarketPreferences[market],
		"available":  alerts.Available(profile.MarketPreferences[market]),
	})
}
