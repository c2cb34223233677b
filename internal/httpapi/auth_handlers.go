package httpapi

import (
	"net/http"
	"time"

	"gadgetry.org/internal/auth"
	"gadgetry.org/internal/obs"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type signupResponse struct {
	Message string     `json:"message"`
	User    *auth.User `json:"user"`
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signinResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	u, err := a.accounts.Signup(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	obs.Info("user registered", map[string]any{
		"request_id": RequestIDFromContext(r.Context()),
		"user_id":    u.ID,
		"role":       u.Role.String(),
	})
	writeJSON(w, http.StatusCreated, signupResponse{
		Message: "User registered successfully!",
		User:    u,
	})
}

func (a *API) handleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := a.accounts.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, signinResponse{
		Message:   "Login successful",
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
	})
}
