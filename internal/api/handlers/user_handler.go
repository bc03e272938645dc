package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/imruiz/gotodo-be/internal/auth"
	"github.com/imruiz/gotodo-be/internal/services"
	"github.com/imruiz/gotodo-be/pkg/validator"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for registration, login, and sessions.
type UserHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// CredentialsPayload defines the structure for registration and login
// requests.
type CredentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration. On success the response body is
// the sanitized user and the auth token travels in the x-auth header, never
// in the body.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if errs := validator.ValidateRegister(payload.Email, payload.Password); errs.HasErrors() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	user, err := h.users.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			// Generic message so registration cannot be used to enumerate
			// existing accounts.
			http.Error(w, "Unable to register", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	token, err := h.issueToken(w, r, user.ID)
	if err != nil {
		return
	}

	w.Header().Set(auth.TokenHeader, token)
	writeJSON(w, http.StatusOK, user)
}

// Login handles user authentication and token issuance. Each login appends
// a fresh token to the user's list; earlier tokens stay valid.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if errs := validator.ValidateLogin(payload.Email, payload.Password); errs.HasErrors() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	user, err := h.users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("failed authentication attempt")
			http.Error(w, "Invalid credentials", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Msg("login lookup failed")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	token, err := h.issueToken(w, r, user.ID)
	if err != nil {
		return
	}

	w.Header().Set(auth.TokenHeader, token)
	writeJSON(w, http.StatusOK, user)
}

// Me returns the authenticated user attached by the middleware.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("could not retrieve user from context")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Logout removes exactly the token this request authenticated with from the
// user's token list. Other tokens for the same user remain valid, and
// removing an already-absent token still succeeds.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, okUser := auth.UserFromContext(r.Context())
	token, okToken := auth.TokenFromContext(r.Context())
	if !okUser || !okToken {
		log.Error().Msg("could not retrieve session from context")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.users.RemoveToken(r.Context(), user.ID, token); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to remove token")
		http.Error(w, "Logout failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// issueToken signs a token, appends it to the user's list, and reports
// failures to the client itself; a non-nil error means the response is
// already written.
func (h *UserHandler) issueToken(w http.ResponseWriter, r *http.Request, userID string) (string, error) {
	token, err := h.tokens.Issue(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to issue token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return "", err
	}
	if err := h.users.AddToken(r.Context(), userID, auth.PurposeAuth, token); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to store token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return "", err
	}
	return token, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
