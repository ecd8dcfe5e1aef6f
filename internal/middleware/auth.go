package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bazarche/bazarche/internal/domain"
	"github.com/bazarche/bazarche/internal/pkg"
)

const (
	authUserIDKey = "auth_user_id"
	authAdminKey  = "auth_admin"
)

// Claims is the token payload: standard registered claims plus an admin flag.
type Claims struct {
	jwt.RegisteredClaims
	Admin bool `json:"adm,omitempty"`
}

// IssueToken signs a token for the given user with the HS256 algorithm.
func IssueToken(secret string, userID uint, admin bool, expiry time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(expiry)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Admin: admin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// parseToken validates a signed token and returns its claims.
func parseToken(secret, tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

// RequireAuth returns a middleware that rejects requests without a valid
// Bearer token and stores the authenticated user id and admin flag in the
// gin context.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			pkg.Error(c, domain.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := parseToken(secret, strings.TrimSpace(tokenString))
		if err != nil {
			pkg.Error(c, domain.ErrUnauthorized)
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil || userID == 0 {
			pkg.Error(c, domain.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(authUserIDKey, uint(userID))
		c.Set(authAdminKey, claims.Admin)
		c.Next()
	}
}

// RequireAdmin returns a middleware that rejects non-admin callers. It must
// run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			pkg.Error(c, domain.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthUserID returns the authenticated user's id, or 0 when unauthenticated.
func AuthUserID(c *gin.Context) uint {
	if v, exists := c.Get(authUserIDKey); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// IsAdmin reports whether the authenticated user carries the admin flag.
func IsAdmin(c *gin.Context) bool {
	if v, exists := c.Get(authAdminKey); exists {
		if admin, ok := v.(bool); ok {
			return admin
		}
	}
	return false
}
