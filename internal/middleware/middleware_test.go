package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant_manager/internal/auth"
	"restaurant_manager/internal/logger"
	"restaurant_manager/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(tokens *auth.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Metrics(), Authenticate(tokens))
	r.GET("/public", func(c *gin.Context) {
		p := Principal(c)
		if p == nil {
			c.JSON(http.StatusOK, gin.H{"user": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": p.UserID})
	})
	r.GET("/staff", RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": auth.FromContext(c.Request.Context()).UserID})
	})
	return r
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r := newRouter(auth.NewManager("s", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set(logger.RequestIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get(logger.RequestIDHeader))
}

func TestAuthentication(t *testing.T) {
	tokens := auth.NewManager("s", time.Hour)
	r := newRouter(tokens)
	token, _, err := tokens.Issue(42, models.RoleOwner)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{name: "anonymous public", path: "/public", status: http.StatusOK, body: `{"user":0}`},
		{name: "anonymous staff", path: "/staff", status: http.StatusUnauthorized},
		{name: "valid token", path: "/staff", header: "Bearer " + token, status: http.StatusOK, body: `{"user":42}`},
		{name: "bad token", path: "/public", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/public", header: "Basic abc", status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.JSONEq(t, tc.body, w.Body.String())
			}
		})
	}
}
