package ollert

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Wire codes returned to the client. Client-correctable conditions are
// reported as {"error": CODE} with a 400; terminal successes as
// {"message": CODE}.
const (
	CodeUsernameInUse             = "USERNAME_IN_USE"
	CodeIncorrectUsernamePassword = "INCORRECT_USERNAME_PASSWORD"
	CodeVerificationEmailSent     = "VERIFICATION_EMAIL_SENT"
	CodeUserNotFound              = "USER_NOT_FOUND"
	CodeUserAlreadyVerified       = "USER_ALREADY_VERIFIED"
	CodeTokenExpired              = "TOKEN_EXPIRED"
	CodeTokenIncorrect            = "TOKEN_INCORRECT"
	// The reset flow reports a mismatched code as INCORRECT_TOKEN, not
	// TOKEN_INCORRECT. The frontend depends on both spellings.
	CodeIncorrectToken         = "INCORRECT_TOKEN"
	CodeResetPasswordEmailSent = "RESET_PASSWORD_EMAIL_SENT"
	CodePasswordUpdated        = "PASSWORD_UPDATED"
	CodeBoardsSaved            = "BOARDS_SAVED"
	CodeNotAuthenticated       = "NOT_AUTHENTICATED"
	CodeBadRequest             = "BAD_REQUEST"
	CodeServerError            = "SERVER_ERROR"
)

// AuthError is a client-correctable flow outcome. Anything else that goes
// wrong during a flow is an internal fault and surfaces as SERVER_ERROR.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func NewAuthError(code, message string) *AuthError {
	return &AuthError{Code: code, Message: message}
}

// ErrVerificationPending is returned by the password login flow when the
// account exists but the email has not been verified yet. A fresh
// verification code has already been issued by the time this is returned.
var ErrVerificationPending = errors.New("email verification pending")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// writeError resolves a flow error into the wire shape. opContext is the
// human-readable description of what was being attempted, logged for
// internal faults only.
func writeError(w http.ResponseWriter, err error, opContext string) {
	var authErr *AuthError
	switch {
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": authErr.Code})
	case errors.Is(err, ErrVerificationPending):
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": CodeVerificationEmailSent})
	default:
		slog.Error(opContext, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": CodeServerError})
	}
}
