package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sdpro1234/skin-disease-ai/internal/apperr"
	"github.com/sdpro1234/skin-disease-ai/internal/auth"
	"github.com/sdpro1234/skin-disease-ai/internal/services"
	"github.com/sdpro1234/skin-disease-ai/internal/session"
)

// AuthHandler handles registration, login, logout and the dashboard.
type AuthHandler struct {
	users     services.UserServiceProvider
	sessions  session.Manager
	analyses  services.AnalysisServiceProvider
	secureEnv bool
}

// NewAuthHandler creates a new AuthHandler. secureEnv controls the Secure
// flag on the session cookie.
func NewAuthHandler(users services.UserServiceProvider, sessions session.Manager, analyses services.AnalysisServiceProvider, secureEnv bool) *AuthHandler {
	return &AuthHandler{
		users:     users,
		sessions:  sessions,
		analyses:  analyses,
		secureEnv: secureEnv,
	}
}

// Home redirects to the login page.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Register handles new user registration from the registration form.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	confirmPassword := r.FormValue("confirm_password")

	if username == "" || email == "" || password == "" {
		http.Error(w, "All fields required", http.StatusBadRequest)
		return
	}
	if password != confirmPassword {
		http.Error(w, "Passwords do not match", http.StatusBadRequest)
		return
	}

	_, err := h.users.Register(username, email, password)
	if err != nil {
		if errors.Is(err, apperr.ErrUserExists) {
			http.Error(w, "User already exists", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

// Login verifies credentials and establishes a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, apperr.ErrInvalidCredentials) {
			log.Error().Err(err).Str("username", username).Msg("Login lookup failed")
		} else {
			log.Warn().Str("username", username).Msg("Failed authentication attempt")
		}
		// Same body for unknown user, wrong password and store faults.
		w.Write([]byte("Invalid credentials"))
		return
	}

	token, err := h.sessions.Create(user.Username)
	if err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("Failed to create session")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   h.secureEnv,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Dashboard serves the protected landing data: the current user and their
// recent analyses.
func (h *AuthHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.Subject(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.users.GetByUsername(username)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("User from session not found")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	analyses, err := h.analyses.RecentForUser(username, 10)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to load analysis history")
		analyses = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":     user,
		"analyses": analyses,
	})
}

// RecentAnalyses serves the current user's analysis history.
func (h *AuthHandler) RecentAnalyses(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.Subject(r)
	analyses, err := h.analyses.RecentForUser(username, 50)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Failed to load analysis history")
		http.Error(w, "Failed to load analyses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(analyses)
}

// Logout destroys the current session. Destroying an absent or already
// destroyed session is a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		h.sessions.Destroy(token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})

	http.Redirect(w, r, "/login", http.StatusFound)
}
