package ollert

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// VerifyEmail checks a verification code and, on a match, marks the account
// verified and logs the user in.
func (a *Auth) VerifyEmail(ctx context.Context, email, code string) (*Session, error) {
	user, err := a.Accounts.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("retrieving user on email verification: %w", err)
	}
	if user == nil {
		return nil, NewAuthError(CodeUserNotFound, "user not found")
	}
	if user.Verified {
		return nil, NewAuthError(CodeUserAlreadyVerified, "user already verified")
	}

	result, err := a.Codes.Check(ctx, PurposeEmailVerification, email, code)
	if err != nil {
		return nil, err
	}
	switch result {
	case CheckExpired:
		return nil, NewAuthError(CodeTokenExpired, "verification code expired")
	case CheckIncorrect:
		return nil, NewAuthError(CodeTokenIncorrect, "verification code incorrect")
	}

	verified := true
	if err := a.Accounts.Update(ctx, email, UserUpdate{Verified: &verified}); err != nil {
		return nil, fmt.Errorf("updating user's verified status: %w", err)
	}
	return a.loginSuccess(email)
}

// ResendVerificationEmail restarts verification for an existing account. The
// caller always sees VERIFICATION_EMAIL_SENT once the code is stored, even
// if the dispatch itself failed.
func (a *Auth) ResendVerificationEmail(ctx context.Context, email string) error {
	user, err := a.Accounts.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("retrieving user on resend verification request: %w", err)
	}
	if user == nil {
		return NewAuthError(CodeUserNotFound, "user not found")
	}
	return a.beginEmailVerification(ctx, email)
}

func (a *Auth) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, NewAuthError(CodeBadRequest, "email and code required"), "")
		return
	}

	session, err := a.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		writeError(w, err, "Verifying email")
		return
	}
	a.respondLoggedIn(w, session)
}

func (a *Auth) HandleResendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, NewAuthError(CodeBadRequest, "email required"), "")
		return
	}

	if err := a.ResendVerificationEmail(r.Context(), email); err != nil {
		writeError(w, err, "Resending verification email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": CodeVerificationEmailSent})
}
