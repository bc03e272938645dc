package auth

import (
	"context"
	"net/http"

	"github.com/imruiz/gotodo-be/internal/models"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	userContextKey  = contextKey("authUser")
	tokenContextKey = contextKey("authToken")
)

// UserFinder resolves a verified token to a live user. The exact token
// string must still be a member of the user's token list with the given
// purpose; a well-signed but revoked token must not resolve.
type UserFinder interface {
	GetByToken(ctx context.Context, userID, token, purpose string) (models.User, error)
}

// Middleware protects routes behind bearer-token authentication.
type Middleware struct {
	tokens *TokenService
	users  UserFinder
}

// NewMiddleware creates an authentication middleware.
func NewMiddleware(tokens *TokenService, users UserFinder) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Require rejects the request unless the x-auth header carries a token that
// verifies and is still present in its user's token list. Every failure
// mode (missing header, malformed token, bad signature, revoked token,
// unknown user) produces the same opaque 401 so a caller cannot tell which
// check failed. On success the sanitized user and the raw token are
// attached to the request context.
func (m *Middleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.Header.Get(TokenHeader)
		if tokenStr == "" {
			reject(w)
			return
		}

		claims, err := m.tokens.Verify(tokenStr)
		if err != nil {
			log.Debug().Err(err).Msg("token verification failed")
			reject(w)
			return
		}

		user, err := m.users.GetByToken(r.Context(), claims.UserID, tokenStr, claims.Purpose)
		if err != nil {
			log.Debug().Err(err).Str("user_id", claims.UserID).Msg("token not resolvable to a live user")
			reject(w)
			return
		}
		user.PasswordHash = ""

		ctx := WithUser(r.Context(), user)
		ctx = WithToken(ctx, tokenStr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func reject(w http.ResponseWriter) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// WithToken returns a context carrying the raw token the request
// authenticated with.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// UserFromContext extracts the authenticated user set by Require.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// TokenFromContext extracts the raw token the request authenticated with.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}
