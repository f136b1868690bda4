package ollert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Register creates an unverified account and starts email verification.
// Exactly one of N concurrent registrations for the same username succeeds;
// the rest see USERNAME_IN_USE from the store's uniqueness constraint.
func (a *Auth) Register(ctx context.Context, username, password string) error {
	if err := a.Accounts.Create(ctx, username, password, false); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return NewAuthError(CodeUsernameInUse, "username already registered")
		}
		return fmt.Errorf("creating new user on registration: %w", err)
	}
	return a.beginEmailVerification(ctx, username)
}

func (a *Auth) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, NewAuthError(CodeBadRequest, "username and password required"), "")
		return
	}

	if err := a.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, err, "Creating new user on registration")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": CodeVerificationEmailSent})
}
