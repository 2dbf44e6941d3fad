package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sdpro1234/skin-disease-ai/internal/session"
)

type contextKey string

// SubjectKey is the context key holding the authenticated username.
const SubjectKey = contextKey("authSubject")

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// TokenFromRequest extracts the session token from the Authorization header
// or, failing that, the session cookie. Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return parts[1]
		}
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Subject returns the authenticated username stored in the request context.
func Subject(r *http.Request) (string, bool) {
	username, ok := r.Context().Value(SubjectKey).(string)
	return username, ok
}

// RequireSession protects API routes. Requests without a valid session get a
// 401 JSON body.
func RequireSession(sessions session.Manager) func(http.Handler) http.Handler {
	return middleware(sessions, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
	})
}

// RequireSessionOrRedirect protects page routes. Requests without a valid
// session are sent back to the login page.
func RequireSessionOrRedirect(sessions session.Manager) func(http.Handler) http.Handler {
	return middleware(sessions, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusFound)
	})
}

func middleware(sessions session.Manager, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				deny(w, r)
				return
			}
			username, ok := sessions.Authenticate(token)
			if !ok {
				deny(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), SubjectKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
