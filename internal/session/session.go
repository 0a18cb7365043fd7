package session

import (
	"database/sql"
	"strings"

	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/types"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PlanPremium is the only plan the product knows about.
const PlanPremium = "premium"

var ErrInvalidToken = errors.New("invalid session token")

// Issue mints an opaque token for an account and stores it.
func Issue(email string) (*types.Session, error) {
	token := "token_" + uuid.NewString()
	if err := database.InsertSession(token, email); err != nil {
		return nil, errors.Wrap(err, "could not issue session")
	}
	return &types.Session{Token: token, Email: email}, nil
}

// Validate resolves a token to its session.
func Validate(token string) (*types.Session, error) {
	if token == "" || !strings.HasPrefix(token, "token_") {
		return nil, ErrInvalidToken
	}
	s, err := database.GetSession(token)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidToken
	} else if err != nil {
		return nil, errors.Wrap(err, "could not look up session")
	}
	return s, nil
}

// Logout destroys the session: the token and the stored email association
// are gone afterwards. The account's plan column is deliberately left alone;
// a premium user who logs out and back in is still premium.
func Logout(token string) error {
	s, err := Validate(token)
	if err != nil {
		return err
	}
	if err := database.DeleteSessionsByEmail(s.Email); err != nil {
		return errors.Wrap(err, "could not delete sessions")
	}
	return nil
}

// SetPlan writes the plan for an account.
func SetPlan(email, plan string) error {
	return database.SetUserPlan(email, plan)
}

// Plan reads the current plan for an account, "" for unknown accounts.
func Plan(email string) string {
	u, err := database.GetUserByEmail(email)
	if err != nil {
		return ""
	}
	return u.Plan
}
