package ollert

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// IdentityResolver maps a provider-specific external token to a verified
// email address. Whatever email the provider returns is treated as already
// proven: federated accounts skip the email-code flow entirely.
type IdentityResolver interface {
	ResolveEmail(ctx context.Context, token string) (string, error)
}

// Auth composes the account registry, code issuer, session issuer, mailer
// and identity resolvers into the user-facing flows: register, login
// (password / federated), email verification and password reset.
type Auth struct {
	Accounts *Accounts
	Codes    *CodeIssuer
	Sessions *SessionIssuer
	Mailer   Mailer

	// Identity resolvers keyed by provider name ("google", "facebook")
	Resolvers map[string]IdentityResolver

	// External base URL used in password reset links
	SiteURL string

	// Where the client is sent after a successful login.
	// Defaults to "/boards.html"
	RedirectURL string

	Middleware Middleware

	Logger *slog.Logger
}

func (a *Auth) EnsureDefaults() *Auth {
	if a.RedirectURL == "" {
		a.RedirectURL = "/boards.html"
	}
	if a.Mailer == nil {
		a.Mailer = &ConsoleMailer{}
	}
	if a.Logger == nil {
		a.Logger = slog.Default()
	}
	if a.Sessions == nil {
		a.Sessions = &SessionIssuer{}
	}
	a.Sessions.EnsureDefaults()
	if a.Middleware.VerifyToken == nil {
		a.Middleware.VerifyToken = a.Sessions.Verify
	}
	if a.Middleware.AuthTokenCookieName == "" {
		a.Middleware.AuthTokenCookieName = a.Sessions.CookieName
	}
	return a
}

// Routes registers every endpoint on r.
func (a *Auth) Routes(r *mux.Router) {
	a.EnsureDefaults()
	r.HandleFunc("/api/register", a.HandleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/login", a.HandleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/resend_verification_email", a.HandleResendVerificationEmail).Methods(http.MethodGet)
	r.HandleFunc("/api/verify_email", a.HandleVerifyEmail).Methods(http.MethodPost)
	r.HandleFunc("/api/forgot_password", a.HandleForgotPassword).Methods(http.MethodGet)
	r.HandleFunc("/api/reset_password", a.HandleResetPassword).Methods(http.MethodPost)
	r.Handle("/api/boards", a.Middleware.EnsureUser(http.HandlerFunc(a.HandleGetBoards))).Methods(http.MethodGet)
	r.Handle("/api/boards", a.Middleware.EnsureUser(http.HandlerFunc(a.HandleSaveBoards))).Methods(http.MethodPost)
}

// Session is the outcome of every login-success event: the signed credential
// plus the cookie directive that delivers it.
type Session struct {
	Username string
	Token    string
	Cookie   *http.Cookie
}

// loginSuccess mints a session credential. Reached on explicit login, on
// successful email verification, and on federated login.
func (a *Auth) loginSuccess(username string) (*Session, error) {
	token, cookie, err := a.Sessions.Issue(username)
	if err != nil {
		return nil, fmt.Errorf("creating session token on login: %w", err)
	}
	return &Session{Username: username, Token: token, Cookie: cookie}, nil
}

// respondLoggedIn sets the session cookie and sends the redirect target.
func (a *Auth) respondLoggedIn(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, session.Cookie)
	writeJSON(w, http.StatusOK, map[string]any{"redirect_url": a.RedirectURL})
}

// beginEmailVerification issues a fresh verification code and dispatches the
// email. The verification process can be started in three ways:
//  1. a new user registers
//  2. an unverified user tries to log in
//  3. the user requests "resend verification email"
//
// The code write must succeed; mail dispatch is best effort — the stored code
// lets the user recover through resend, so a dispatch failure is logged and
// the caller still reports VERIFICATION_EMAIL_SENT.
func (a *Auth) beginEmailVerification(ctx context.Context, email string) error {
	code, _, err := a.Codes.Issue(ctx, PurposeEmailVerification, email)
	if err != nil {
		return fmt.Errorf("issuing email verification code: %w", err)
	}
	if err := a.Mailer.SendVerificationEmail(email, code); err != nil {
		a.Logger.Error("sending verification email", "email", email, "error", err)
	}
	return nil
}
