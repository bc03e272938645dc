package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenHeader is the fixed request and response header carrying the auth
// token.
const TokenHeader = "x-auth"

// PurposeAuth tags tokens issued for request authentication.
const PurposeAuth = "auth"

// Verification failure kinds. Callers must treat these as normal outcomes;
// the HTTP layer collapses them into one opaque 401.
var (
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenSignature = errors.New("invalid token signature")
)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID  string `json:"userId"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens. Verification is
// stateless; revocation lives in the per-user token list, so a passing
// Verify is necessary but not sufficient for authentication.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService signing with the given secret.
// The secret is loaded once at startup from configuration.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue creates a signed token binding userID to the auth purpose. The jti
// claim is a fresh UUID so every issued token value is unique, even for the
// same user within the same second. Tokens carry no expiry; they remain
// valid until removed from the holder's token list.
func (s *TokenService) Issue(userID string) (string, error) {
	claims := &Claims{
		UserID:  userID,
		Purpose: PurposeAuth,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns the embedded
// claims. Failures are reported as ErrTokenMalformed or ErrTokenSignature.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, fmt.Errorf("%w: %v", ErrTokenSignature, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if !token.Valid || claims.UserID == "" || claims.Purpose != PurposeAuth {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
