package ollert

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionIssuer mints and checks the stateless session credential: an HS256
// JWT carrying the username, delivered as a cookie. There is no server-side
// session state and no revocation list.
type SessionIssuer struct {
	SecretKey string

	// Issuer claim. Defaults to "Ollert"
	Issuer string

	// Session lifetime. Defaults to 24h. Required configuration: do not be
	// tempted to make this effectively infinite
	Expiry time.Duration

	// Cookie name. Defaults to "token"
	CookieName string
}

func (s *SessionIssuer) EnsureDefaults() *SessionIssuer {
	if s.Issuer == "" {
		s.Issuer = "Ollert"
	}
	if s.Expiry <= 0 {
		s.Expiry = 24 * time.Hour
	}
	if s.CookieName == "" {
		s.CookieName = "token"
	}
	return s
}

// Issue signs a credential for username and returns it with the cookie that
// delivers it (token=<jwt>; Max-Age=<expiry>; Path=/).
func (s *SessionIssuer) Issue(username string) (string, *http.Cookie, error) {
	s.EnsureDefaults()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"iss": s.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.Expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(s.SecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("signing session token: %w", err)
	}
	return signed, &http.Cookie{
		Name:   s.CookieName,
		Value:  signed,
		Path:   "/",
		MaxAge: int(s.Expiry.Seconds()),
	}, nil
}

// Verify checks signature and expiry and returns the username. Every failure
// mode (absent, expired, tampered, malformed) is a single opaque error:
// callers only get valid vs not-valid.
func (s *SessionIssuer) Verify(tokenString string) (string, error) {
	s.EnsureDefaults()
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(s.SecretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("invalid session token")
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return sub, nil
}
