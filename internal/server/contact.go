package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/telegram"
	"aifinverse-backend/lib/helpers"
	"aifinverse-backend/lib/translation"

	log "github.com/sirupsen/logrus"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fieldError("body", translation.Translate("Invalid input.")))
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeValidationError(w, fieldError("name", translation.Translate("Please enter your name.")))
		return
	}
	if !helpers.IsValidEmail(req.Email) {
		writeValidationError(w, fieldError("email", translation.Translate("Please enter a valid email address (e.g., name@example.com)")))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeValidationError(w, fieldError("message", translation.Translate("Please enter a message.")))
		return
	}

	err := database.InsertContactMessage(
		strings.TrimSpace(req.Name),
		strings.ToLower(strings.TrimSpace(req.Email)),
		strings.TrimSpace(req.Subject),
		strings.TrimSpace(req.Message),
	)
	if err != nil {
		serverError(w, err)
		return
	}

	s.metrics.ContactMessagesTotal.Inc()
	log.Infof("contact message received from %s", req.Email)

	writeMessage(w, http.StatusOK, translation.Translate("Thanks for reaching out. We will get back to you soon."))
}

// handleTelegramRedirect keeps the historical /whatsapp/redirect path alive:
// the button moved to telegram but the URL never changed.
func (s *Server) handleTelegramRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, telegram.DeepLink(s.botName, r.URL.Query().Get("code")), http.StatusFound)
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"countries": s.countries.Lookup(r.URL.Query().Get("q")),
	})
}
