package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkfeed/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTTTL:        time.Hour,
		StorageDriver: "local",
		UploadDir:     t.TempDir(),
		UploadFolder:  "test",
		MaxUploadSize: config.DefaultMaxUploadSize,
		MaxTextLength: config.DefaultMaxTextLength,
		RateLimitPost: time.Second,
	}

	srv, err := New(cfg, nil, nil)
	require.NoError(t, err)
	return srv
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)
	postID := "11111111-1111-1111-1111-111111111111"

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/posts"},
		{http.MethodPut, "/api/posts/" + postID},
		{http.MethodDelete, "/api/posts/" + postID},
		{http.MethodPut, "/api/posts/" + postID + "/like"},
		{http.MethodPost, "/api/posts/" + postID + "/comment"},
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/" + postID},
	}

	for _, route := range routes {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestRegisterRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRouteNotFound(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
