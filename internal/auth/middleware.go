package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxClaimsKey = "auth_claims"

var (
	ErrNoToken      = errors.New("missing bearer token")
	ErrBadToken     = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// bearerToken extracts the raw token from an Authorization header.
// The scheme comparison is case-insensitive per RFC 7235.
func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// authenticate validates the request's bearer token and confirms the
// account has not invalidated it since issue (logout and password
// changes bump the stored token version).
func authenticate(c *gin.Context, tokens TokenService, repo *Repo) (*Claims, error) {
	raw, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return nil, ErrNoToken
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		return nil, ErrBadToken
	}

	if repo != nil {
		current, err := repo.GetTokenVersion(c.Request.Context(), claims.AccountID)
		if err != nil {
			return nil, fmt.Errorf("load token version: %w", err)
		}
		if current != claims.TokenVersion {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

func AuthMiddleware(tokens TokenService, repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, tokens, repo)
		if err != nil {
			status := http.StatusUnauthorized
			msg := err.Error()
			if !errors.Is(err, ErrNoToken) && !errors.Is(err, ErrBadToken) && !errors.Is(err, ErrTokenRevoked) {
				status = http.StatusInternalServerError
				msg = "auth check failed"
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
