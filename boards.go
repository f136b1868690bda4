package ollert

import (
	"encoding/json"
	"net/http"
)

// The board document is the one protected resource: an opaque JSON array
// stored verbatim on the user record. Both handlers run behind
// Middleware.EnsureUser.

func (a *Auth) HandleGetBoards(w http.ResponseWriter, r *http.Request) {
	username := LoggedInUser(r)

	user, err := a.Accounts.Get(r.Context(), username)
	if err != nil {
		writeError(w, err, "Retrieving user's boards")
		return
	}
	if user == nil {
		writeError(w, NewAuthError(CodeUserNotFound, "user not found"), "")
		return
	}

	boards := user.Boards
	if boards == "" {
		boards = "[]"
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": json.RawMessage(boards)})
}

func (a *Auth) HandleSaveBoards(w http.ResponseWriter, r *http.Request) {
	username := LoggedInUser(r)

	var req struct {
		Boards json.RawMessage `json:"boards"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Boards == nil {
		writeError(w, NewAuthError(CodeBadRequest, "boards payload required"), "")
		return
	}

	payload := string(req.Boards)
	if err := a.Accounts.Update(r.Context(), username, UserUpdate{Boards: &payload}); err != nil {
		writeError(w, err, "Saving user's boards")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": CodeBoardsSaved})
}
