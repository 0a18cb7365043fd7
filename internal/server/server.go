package server

import (
	"encoding/json"
	"net/http"

	"aifinverse-backend/internal/countries"
	"aifinverse-backend/internal/guard"
	"aifinverse-backend/internal/metrics"
	"aifinverse-backend/internal/preferences"
	"aifinverse-backend/internal/registration"

	log "github.com/sirupsen/logrus"
)

// Server is the public JSON API the web client talks to.
type Server struct {
	store     *preferences.Store
	registrar *registration.Registrar
	countries *countries.Client
	metrics   *metrics.ServiceMetrics
	botName   string
}

func New(store *preferences.Store, countriesClient *countries.Client, botName string) *Server {
	return &Server{
		store:     store,
		registrar: registration.NewRegistrar(store),
		countries: countriesClient,
		metrics:   metrics.Default(),
		botName:   botName,
	}
}

// Routes builds the full route surface. Live-alerts routes bounce anonymous
// visitors to /registration (their historical behavior); other guarded
// routes bounce to /login.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /forgot-password", s.handleForgotPassword)
	mux.HandleFunc("POST /verify-otp", s.handleVerifyOTP)
	mux.HandleFunc("POST /reset-password", s.handleResetPassword)
	mux.HandleFunc("POST /register/preference", s.handleRegisterPreference)
	mux.HandleFunc("POST /contact-us", s.handleContact)
	mux.HandleFunc("GET /whatsapp/redirect", s.handleTelegramRedirect)
	mux.HandleFunc("GET /countries", s.handleCountries)
	mux.HandleFunc("GET /health", handleHealth)

	alertsGuard := func(h http.HandlerFunc) http.Handler {
		return guard.RequireAuthRedirect("/registration", guard.RequirePremium(h))
	}
	mux.Handle("GET /alerts/{market}", alertsGuard(s.handleGetAlerts))
	mux.Handle("POST /alerts/{market}/strategies", alertsGuard(s.handleAddStrategies))
	mux.Handle("DELETE /alerts/{market}/strategies/{name}", alertsGuard(s.handleRemoveStrategy))

	mux.Handle("GET /profile", guard.RequireAuth(http.HandlerFunc(s.handleGetProfile)))
	mux.Handle("PUT /profile", guard.RequireAuth(http.HandlerFunc(s.handleUpdateProfile)))
	mux.Handle("POST /logout", guard.RequireAuth(http.HandlerFunc(s.handleLogout)))
	mux.Handle("GET /telegram/link", guard.RequireAuth(http.HandlerFunc(s.handleTelegramLink)))

	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"message": msg})
}

// validationDetail mirrors the 422 shape the client parses: a list of
// {loc, msg} entries.
type validationDetail struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func writeValidationError(w http.ResponseWriter, details ...validationDetail) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": details})
}

func fieldError(field, msg string) validationDetail {
	return validationDetail{Loc: []string{"body", field}, Msg: msg}
}

func serverError(w http.ResponseWriter, err error) {
	log.Errorf("internal error: %v", err)
	writeMessage(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}
