package ollert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// LoginPassword authenticates username/password. A missing user and a wrong
// password produce the same INCORRECT_USERNAME_PASSWORD outcome so the
// endpoint does not leak which usernames exist. An unverified account never
// reaches a session: it gets a fresh verification code instead.
func (a *Auth) LoginPassword(ctx context.Context, username, password string) (*Session, error) {
	user, err := a.Accounts.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("retrieving user on login: %w", err)
	}
	if user == nil {
		return nil, NewAuthError(CodeIncorrectUsernamePassword, "incorrect username or password")
	}

	matched, err := a.Accounts.Passwords.Compare(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("comparing passwords on login: %w", err)
	}
	if !matched {
		return nil, NewAuthError(CodeIncorrectUsernamePassword, "incorrect username or password")
	}

	if !user.Verified {
		if err := a.beginEmailVerification(ctx, username); err != nil {
			return nil, err
		}
		return nil, ErrVerificationPending
	}

	return a.loginSuccess(username)
}

// LoginFederated resolves a provider token to an email and logs that email
// in, creating the account on first contact. The create/duplicate dance is
// the designed-for race: two concurrent first logins for the same address
// both end up logged in against a single record, and a duplicate against a
// previously-unverified password account marks it verified — the provider
// has just proven the address.
func (a *Auth) LoginFederated(ctx context.Context, provider, token string) (*Session, error) {
	resolver := a.Resolvers[provider]
	if resolver == nil {
		return nil, NewAuthError(CodeBadRequest, "unknown login provider")
	}

	email, err := resolver.ResolveEmail(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("resolving %s token on login: %w", provider, err)
	}

	// The placeholder password is random and never used: provider-only
	// accounts keep the uniform record shape.
	err = a.Accounts.Create(ctx, email, uuid.NewString(), true)
	switch {
	case errors.Is(err, ErrDuplicateUsername):
		verified := true
		if uerr := a.Accounts.Update(ctx, email, UserUpdate{Verified: &verified}); uerr != nil {
			a.Logger.Error("marking user verified on federated login", "email", email, "error", uerr)
		}
	case err != nil:
		return nil, fmt.Errorf("creating user on login with %s: %w", provider, err)
	}

	return a.loginSuccess(email)
}

func (a *Auth) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider string `json:"provider"`
		Token    string `json:"token"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, NewAuthError(CodeBadRequest, "invalid request body"), "")
		return
	}

	var session *Session
	var err error
	if req.Provider != "" {
		session, err = a.LoginFederated(r.Context(), req.Provider, req.Token)
	} else {
		session, err = a.LoginPassword(r.Context(), req.Username, req.Password)
	}
	if err != nil {
		writeError(w, err, "Logging user in")
		return
	}
	a.respondLoggedIn(w, session)
}
