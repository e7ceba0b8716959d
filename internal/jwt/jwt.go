package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sbilibin2017/messagely/internal/apperr"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
)

// ErrInvalidToken is returned for every verification failure, whatever the cause.
var ErrInvalidToken = apperr.New(apperr.InvalidToken, "invalid token")

const defaultExpiration = 24 * time.Hour

// Claims are the token payload: the user's public fields plus registered claims.
type Claims struct {
	jwt.RegisteredClaims
	models.PublicUser
}

// JWT issues and verifies HS256 identity tokens.
type JWT struct {
	secretKey []byte        // Secret key for signing tokens
	exp       time.Duration // Token lifetime
	now       func() time.Time
}

// Opt configures a JWT.
type Opt func(*JWT)

// WithSecretKey sets the signing key.
func WithSecretKey(key string) Opt {
	return func(j *JWT) {
		j.secretKey = []byte(key)
	}
}

// WithExpiration sets the token lifetime.
func WithExpiration(d time.Duration) Opt {
	return func(j *JWT) {
		j.exp = d
	}
}

// New creates a new JWT instance
func New(opts ...Opt) *JWT {
	j := &JWT{
		exp: defaultExpiration,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Issue signs a token carrying a snapshot of user.
func (j *JWT) Issue(ctx context.Context, user models.PublicUser) (string, error) {
	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.exp)),
		},
		PublicUser: user,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// Verify checks the signature and lifetime of tokenString and returns the
// embedded user. Any failure yields ErrInvalidToken.
func (j *JWT) Verify(ctx context.Context, tokenString string) (*models.PublicUser, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		logger.Log.Debugw("token rejected", "error", err)
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Username == "" || claims.Subject != claims.Username {
		logger.Log.Debugw("token rejected", "error", "inconsistent claims")
		return nil, ErrInvalidToken
	}

	user := claims.PublicUser
	return &user, nil
}

// GetTokenFromRequest extracts the token string from the Authorization header
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
