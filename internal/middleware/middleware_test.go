package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hris-admin/internal/middleware"
	"go-hris-admin/internal/shared/contextutil"
	"go-hris-admin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secret = []byte("test-secret")

func setupRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ContextLogger(zap.NewNop()))
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"request_id": contextutil.GetRequestID(ctx),
			"operator":   contextutil.GetOperator(ctx),
		})
	})
	return r
}

func sign(t *testing.T, claims jwt.RegisteredClaims, key []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestContextLogger(t *testing.T) {
	r := setupRouter()

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(middleware.RequestIDHeader, "rid-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "rid-1", w.Header().Get(middleware.RequestIDHeader))
		assert.JSONEq(t, `{"request_id":"rid-1","operator":""}`, w.Body.String())
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
	})
}

func TestAuthMiddleware(t *testing.T) {
	r := setupRouter(middleware.AuthMiddleware(secret))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing", "", http.StatusUnauthorized, "Token not found"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{
			"wrong key",
			"Bearer " + sign(t, jwt.RegisteredClaims{Subject: "alice"}, []byte("other")),
			http.StatusUnauthorized, "Invalid token",
		},
		{
			"expired",
			"Bearer " + sign(t, jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}, secret),
			http.StatusUnauthorized, "Token expired",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var env response.Envelope[any]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}

	t.Run("valid token sets operator", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, jwt.RegisteredClaims{Subject: "alice"}, secret))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"operator":"alice"`)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: sign(t, jwt.RegisteredClaims{Subject: "bob"}, secret)})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("disabled without secret", func(t *testing.T) {
		open := setupRouter(middleware.AuthMiddleware(nil))
		w := httptest.NewRecorder()
		open.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	r := setupRouter(middleware.RateLimitByIP(1, 2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1000", w.Header().Get("X-RateLimit-Reset"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
