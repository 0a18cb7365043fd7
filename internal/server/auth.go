package server

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"aifinverse-backend/config"
	"aifinverse-backend/internal/database"
	"aifinverse-backend/internal/guard"
	"aifinverse-backend/internal/registration"
	"aifinverse-backend/internal/session"
	"aifinverse-backend/lib/helpers"
	"aifinverse-backend/lib/translation"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, translation.Translate("Could not read request."))
		return
	}

	details, shape, err := decodeRegisterPayload(body)
	if err != nil {
		writeValidationError(w, fieldError("body", translation.Translate("Unrecognized registration payload.")))
		return
	}
	log.Debugf("handling /register (%s shape)", shape)

	wizard, err := s.registrar.SubmitAccountDetails(details)
	switch err {
	case nil:
	case registration.ErrEmailTaken:
		writeMessage(w, http.StatusConflict, translation.Translate("An account with this email already exists."))
		return
	case registration.ErrInvalidFirstName, registration.ErrInvalidLastName,
		registration.ErrInvalidEmail, registration.ErrInvalidCountry,
		registration.ErrInvalidPassword, registration.ErrPasswordMismatch:
		writeValidationError(w, fieldError("body", err.Error()))
		return
	default:
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": translation.Translate("Account created. Continue with market selection."),
		"token":   wizard.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fieldError("body", translation.Translate("Invalid input. Please check your email and password.")))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeValidationError(w, fieldError("email", translation.Translate("Please fill in all fields")))
		return
	}

	user, err := database.GetUserByEmail(email)
	if err == sql.ErrNoRows {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Invalid email or password."))
		return
	} else if err != nil {
		serverError(w, err)
		return
	}

	hash, err := database.GetPasswordHash(email)
	if err != nil {
		serverError(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Invalid email or password."))
		return
	}

	sess, err := session.Issue(email)
	if err != nil {
		serverError(w, err)
		return
	}

	s.metrics.LoginsTotal.Inc()

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user_id": user.ID,
		"token":   sess.Token,
		"name":    name,
	})
}

// handleLogout destroys the session. The account's plan is untouched: a
// premium user stays premium across logins.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(guard.TokenFromRequest(r)); err != nil && err != session.ErrInvalidToken {
		serverError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, translation.Translate("Logged out."))
}

type emailRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !helpers.IsValidEmail(req.Email) {
		writeValidationError(w, fieldError("email", translation.Translate("Please enter a valid email address (e.g., name@example.com)")))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Whether the account exists is not revealed; the OTP row is only
	// written for real accounts.
	if _, err := database.GetUserByEmail(email); err == nil {
		otp, err := generateOTP()
		if err != nil {
			serverError(w, err)
			return
		}

		ttl := time.Duration(config.GetInt("otp_ttl_minutes")) * time.Minute
		if err := database.SaveOTP(email, otp, time.Now().Add(ttl).Unix()); err != nil {
			serverError(w, err)
			return
		}
		log.Infof("password reset code issued for %s", email)
	} else if err != sql.ErrNoRows {
		serverError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, translation.Translate("If the account exists, a reset code has been sent."))
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fieldError("body", translation.Translate("Invalid input.")))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	otp, expiresAt, _, err := database.GetOTP(email)
	if err != nil {
		serverError(w, err)
		return
	}

	if otp == "" || otp != strings.TrimSpace(req.OTP) || time.Now().Unix() > expiresAt {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Invalid or expired code."))
		return
	}

	if err := database.MarkOTPVerified(email); err != nil {
		serverError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, translation.Translate("Code verified. You can now set a new password."))
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, fieldError("body", translation.Translate("Invalid input.")))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, _, verified, err := database.GetOTP(email)
	if err != nil {
		serverError(w, err)
		return
	}
	if !verified {
		writeMessage(w, http.StatusUnauthorized, translation.Translate("Verify the reset code first."))
		return
	}

	if !helpers.IsValidPassword(req.Password) {
		writeValidationError(w, fieldError("password", registration.ErrInvalidPassword.Error()))
		return
	}
	if req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		writeValidationError(w, fieldError("confirm_password", registration.ErrPasswordMismatch.Error()))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		serverError(w, err)
		return
	}
	if err := database.SetPasswordHash(email, string(hash)); err != nil {
		serverError(w, err)
		return
	}
	if err := database.DeleteOTP(email); err != nil {
		log.Errorf("failed to clear reset code for %s: %v", email, err)
	}

	writeMessage(w, http.StatusOK, translation.Translate("Password updated. You can now log in."))
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
