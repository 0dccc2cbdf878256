package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"provision-store/internal/logging"
)

const (
	RoleAdmin   = "admin"
	operatorKey = "operator"
)

var errNoBearer = errors.New("authorization header is not a bearer token")

// OperatorClaims is the payload of the access token handed out by the login
// route. Email doubles as the subject.
type OperatorClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 admin token for email, valid until now+ttl.
func IssueToken(secret, email string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := OperatorClaims{
		Email: email,
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, algorithm and expiry. Tokens without an exp
// claim are rejected.
func ParseToken(secret, raw string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errNoBearer
	}
	return token, nil
}

// AdminAuth guards mutating routes. With an empty secret auth is disabled
// and every request passes through.
func AdminAuth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.TrimSpace(header) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
			return
		}

		raw, err := bearerToken(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
			return
		}

		claims, err := ParseToken(secret, raw)
		if err != nil {
			logging.WithCtx(c.Request.Context()).Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}
		if claims.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden"})
			return
		}

		c.Set(operatorKey, claims)
		logger := logging.WithCtx(c.Request.Context()).With("operator", claims.Email)
		c.Request = c.Request.WithContext(logging.Inject(c.Request.Context(), logger))
		c.Next()
	}
}

// OperatorFromContext returns the claims AdminAuth accepted for this request.
// ok is false when auth is disabled.
func OperatorFromContext(c *gin.Context) (*OperatorClaims, bool) {
	v, exists := c.Get(operatorKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*OperatorClaims)
	return claims, ok
}
