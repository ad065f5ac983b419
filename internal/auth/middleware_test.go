package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	raw, ok := bearerToken("Bearer abc.def.ghi")
	require.True(t, ok)
	assert.Equal(t, "abc.def.ghi", raw)

	raw, ok = bearerToken("bearer abc")
	require.True(t, ok, "scheme match is case-insensitive")
	assert.Equal(t, "abc", raw)

	for _, header := range []string{"", "Bearer ", "Basic abc", "abc.def.ghi"} {
		_, ok := bearerToken(header)
		assert.False(t, ok, "header %q must not yield a token", header)
	}
}

func newProtectedRouter(t *testing.T, tokens TokenService, repo *Repo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/secret", AuthMiddleware(tokens, repo), func(c *gin.Context) {
		claims := MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return router
}

func getWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	tokens := testTokens()
	router := newProtectedRouter(t, tokens, repo)

	a := Account{ID: uuid.NewString(), Username: "ada", PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), a))

	token, _, err := tokens.Sign(&a)
	require.NoError(t, err)

	w := getWithToken(router, token)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "ada")
}

func TestAuthMiddlewareRejectsMissingOrGarbageToken(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	router := newProtectedRouter(t, testTokens(), repo)

	w := getWithToken(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing bearer token")

	w = getWithToken(router, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	tokens := testTokens()
	router := newProtectedRouter(t, tokens, repo)

	a := Account{ID: uuid.NewString(), Username: "ada", PasswordHash: "x"}
	require.NoError(t, repo.Create(context.Background(), a))

	token, _, err := tokens.Sign(&a)
	require.NoError(t, err)

	// logout bumps the stored version; tokens minted before are dead
	require.NoError(t, repo.BumpTokenVersion(context.Background(), a.ID))

	w := getWithToken(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token revoked")
}
