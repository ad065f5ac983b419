package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviweb/pkg/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "moviweb-test",
		Duration: time.Hour,
	}
}

func newTestRouter(t *testing.T, db *sql.DB) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepo(db)
	handler := NewHandler(repo, testTokens())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/auth"))
	return router, repo
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterCreatesAccount(t *testing.T) {
	router, _ := newTestRouter(t, newTestDB(t))

	w := postJSON(router, "/auth/register", `{"username":"ada","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token   string `json:"token"`
		Account struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"account"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ada", resp.Account.Username)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	router, _ := newTestRouter(t, newTestDB(t))

	w := postJSON(router, "/auth/register", `{"username":"ada","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/auth/register", `{"username":"ada","password":"differentpass"}`)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestRegisterSurfacesStoreFailure(t *testing.T) {
	db := newTestDB(t)
	router, _ := newTestRouter(t, db)

	// a broken store must read as a server error, never as
	// "username available"
	require.NoError(t, db.Close())

	w := postJSON(router, "/auth/register", `{"username":"ada","password":"hunter2hunter2"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
}

func TestLoginWithWrongPassword(t *testing.T) {
	router, _ := newTestRouter(t, newTestDB(t))

	w := postJSON(router, "/auth/register", `{"username":"ada","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "/auth/login", `{"username":"ada","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
