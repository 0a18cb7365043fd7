package guard

import (
	"context"
	"net/http"
	"strings"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/metrics"
	"aifinverse-backend/internal/session"
	"aifinverse-backend/internal/types"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionFrom returns the session attached by RequireAuth.
func SessionFrom(ctx context.Context) (*types.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*types.Session)
	return s, ok
}

// TokenFromRequest reads the auth token from the Authorization header or the
// authToken cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie("authToken"); err == nil {
		return c.Value
	}
	return ""
}

// RequireAuth gates a route behind a valid token and a completed
// registration. Visitors without a token are bounced to /login with the
// attempted path recorded for later; visitors with a token but an unfinished
// registration go back to /register. A storage failure during the check
// counts as unauthenticated.
func RequireAuth(next http.Handler) http.Handler {
	return RequireAuthRedirect("/login", next)
}

// RequireAuthRedirect is RequireAuth with a configurable bounce target: the
// live-alerts pages historically send anonymous visitors to /registration
// instead of /login.
func RequireAuthRedirect(target string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)

		s, err := session.Validate(token)
		if err != nil {
			if err != session.ErrInvalidToken {
				log.Errorf("auth check failed: %v", err)
			}
			bounce(w, r, token, target)
			return
		}

		user, err := database.GetUserByEmail(s.Email)
		if err != nil {
			log.Errorf("auth check failed for %s: %v", s.Email, err)
			bounce(w, r, token, target)
			return
		}

		if !user.RegistrationComplete {
			log.Debugf("user %s has token but registration incomplete", s.Email)
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePremium enforces the premium plan on an already-authenticated
// route. An authenticated user without the plan is not denied: the plan is
// granted on the spot and the request proceeds. The grant is logged and
// counted so the advisory gate stays observable.
func RequirePremium(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFrom(r.Context())
		if !ok {
			bounce(w, r, TokenFromRequest(r), "/login")
			return
		}

		if session.Plan(s.Email) != session.PlanPremium {
			log.Warnf("auto-granting premium access to logged-in user %s", s.Email)
			if err := session.SetPlan(s.Email, session.PlanPremium); err != nil {
				log.Errorf("failed to persist auto-granted plan for %s: %v", s.Email, err)
			}
			metrics.Default().PremiumAutoGrantsTotal.Inc()
		}

		next.ServeHTTP(w, r)
	})
}

func bounce(w http.ResponseWriter, r *http.Request, token, target string) {
	if token != "" {
		// Best effort: the token may not map to a session row anymore.
		if err := database.SetRedirectAfterLogin(token, r.URL.Path); err != nil {
			log.Debugf("could not record redirect hint: %v", err)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
