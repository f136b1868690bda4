package ollert

import (
	"context"
	"net/http"
	"strings"
)

type loggedInUserKey struct{}

// Middleware gates protected routes on a valid session credential. The
// credential is read from the session cookie or the Authorization header;
// a uniform not-authenticated outcome covers every failure mode.
type Middleware struct {
	// Cookie carrying the session token. Defaults to "token"
	AuthTokenCookieName string

	// Header checked as a fallback, with an optional "Bearer " prefix.
	// Defaults to "Authorization"
	AuthTokenHeaderName string

	VerifyToken func(tokenString string) (username string, err error)
}

func (m *Middleware) EnsureReasonableDefaults() {
	if m.AuthTokenCookieName == "" {
		m.AuthTokenCookieName = "token"
	}
	if m.AuthTokenHeaderName == "" {
		m.AuthTokenHeaderName = "Authorization"
	}
}

// LoggedInUser returns the username established for this request, or "".
func LoggedInUser(r *http.Request) string {
	if v, ok := r.Context().Value(loggedInUserKey{}).(string); ok {
		return v
	}
	return ""
}

// ExtractUser resolves the session credential if one is present and makes the
// username available to downstream handlers. It never rejects the request;
// use EnsureUser for that.
func (m *Middleware) ExtractUser(next http.Handler) http.Handler {
	m.EnsureReasonableDefaults()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, m.withLoggedInUser(r))
	})
}

// EnsureUser rejects requests without a valid session credential with a 401
// NOT_AUTHENTICATED body. It deliberately does not distinguish expired from
// tampered from absent.
func (m *Middleware) EnsureUser(next http.Handler) http.Handler {
	m.EnsureReasonableDefaults()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = m.withLoggedInUser(r)
		if LoggedInUser(r) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": CodeNotAuthenticated})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) withLoggedInUser(r *http.Request) *http.Request {
	username := m.verifyRequest(r)
	if username == "" {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), loggedInUserKey{}, username))
}

func (m *Middleware) verifyRequest(r *http.Request) string {
	if m.VerifyToken == nil {
		return ""
	}

	var candidates []string
	for _, cookie := range r.Cookies() {
		if cookie.Name == m.AuthTokenCookieName && cookie.Value != "" {
			candidates = append(candidates, cookie.Value)
		}
	}
	for _, header := range r.Header.Values(m.AuthTokenHeaderName) {
		candidates = append(candidates, strings.TrimPrefix(header, "Bearer "))
	}

	for _, token := range candidates {
		if username, err := m.VerifyToken(token); err == nil && username != "" {
			return username
		}
	}
	return ""
}
