package ollert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ForgotPassword issues a reset code for an existing account and returns it
// with its validity window. Mail dispatch is the handler's job, after the
// response has gone out.
func (a *Auth) ForgotPassword(ctx context.Context, username string) (string, time.Duration, error) {
	user, err := a.Accounts.Get(ctx, username)
	if err != nil {
		return "", 0, fmt.Errorf("retrieving user on forgot password request: %w", err)
	}
	if user == nil {
		return "", 0, NewAuthError(CodeUserNotFound, "user not found")
	}

	code, ttl, err := a.Codes.Issue(ctx, PurposePasswordReset, username)
	if err != nil {
		return "", 0, err
	}
	return code, ttl, nil
}

// ResetPassword checks a reset code and replaces the password. A successful
// reset also marks the account verified: the code arrived over email.
func (a *Auth) ResetPassword(ctx context.Context, username, code, newPassword string) error {
	user, err := a.Accounts.Get(ctx, username)
	if err != nil {
		return fmt.Errorf("retrieving user on reset password request: %w", err)
	}
	if user == nil {
		return NewAuthError(CodeUserNotFound, "user not found")
	}

	result, err := a.Codes.Check(ctx, PurposePasswordReset, username, code)
	if err != nil {
		return err
	}
	switch result {
	case CheckExpired:
		return NewAuthError(CodeTokenExpired, "reset code expired")
	case CheckIncorrect:
		return NewAuthError(CodeIncorrectToken, "reset code incorrect")
	}

	if err := a.Accounts.SetPassword(ctx, username, newPassword); err != nil {
		return fmt.Errorf("updating user's password: %w", err)
	}
	return nil
}

func (a *Auth) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		writeError(w, NewAuthError(CodeBadRequest, "username required"), "")
		return
	}

	code, ttl, err := a.ForgotPassword(r.Context(), username)
	if err != nil {
		writeError(w, err, "Issuing password reset code")
		return
	}

	// Respond first; the user should not wait on the mail round trip.
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  CodeResetPasswordEmailSent,
		"validity": int(ttl.Seconds()),
	})

	link := fmt.Sprintf("%s/reset_password?username=%s&password_reset_code=%s",
		a.SiteURL, url.QueryEscape(username), url.QueryEscape(code))
	if err := a.Mailer.SendPasswordResetEmail(username, link); err != nil {
		a.Logger.Error("sending password reset email", "username", username, "error", err)
	}
}

func (a *Auth) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Code     string `json:"code"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, NewAuthError(CodeBadRequest, "username, code and password required"), "")
		return
	}

	if err := a.ResetPassword(r.Context(), req.Username, req.Code, req.Password); err != nil {
		writeError(w, err, "Resetting password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": CodePasswordUpdated})
}
