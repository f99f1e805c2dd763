package handlers

import (
	"database/sql"
	"net/http"

	"github.com/celltrail/internal/auth"
)

// AuthHandler issues access tokens against the users table.
type AuthHandler struct {
	DB     *sql.DB
	Secret string
}

// tokenResponse is the login payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login handles POST /api/auth/login with form fields username and
// password. A wrong username and a wrong password produce the same 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	var storedHash string
	err := h.DB.QueryRowContext(r.Context(),
		"SELECT password_hash FROM users WHERE username = $1", username).Scan(&storedHash)
	switch {
	case err == sql.ErrNoRows:
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if !auth.VerifyPassword(password, storedHash) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := auth.CreateAccessToken(username, h.Secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
