package apiclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go-hris-admin/internal/apiclient"
	"go-hris-admin/internal/shared/apperror"
	"go-hris-admin/internal/shared/contextutil"
	"go-hris-admin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string, mutate ...func(*apiclient.Config)) *apiclient.Client {
	t.Helper()
	cfg := apiclient.Config{
		BaseURL:   baseURL,
		Timeout:   2 * time.Second,
		Retries:   2,
		BaseDelay: time.Millisecond,
		MaxDelay:  5 * time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := apiclient.New(cfg)
	require.NoError(t, err)
	return c
}

func TestClient_Get(t *testing.T) {
	t.Run("decodes envelope and propagates request id", func(t *testing.T) {
		var gotRID string
		srv := setupServer(t, func(r *gin.Engine) {
			r.GET("/api/v1/departments/exists/code/:code", func(c *gin.Context) {
				gotRID = c.GetHeader(apiclient.RequestIDHeader)
				response.Success(c, http.StatusOK, c.Param("code") == "HR", "", nil)
			})
		})
		client := newClient(t, srv.URL)

		ctx := contextutil.WithRequestID(context.Background(), "REQ-42")
		env, err := client.Get(ctx, "/api/v1/departments/exists/code/HR")
		require.NoError(t, err)

		exists, err := apiclient.DecodeData[bool](env)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "REQ-42", gotRID)
	})

	t.Run("generates request id when missing", func(t *testing.T) {
		var gotRID string
		srv := setupServer(t, func(r *gin.Engine) {
			r.GET("/x", func(c *gin.Context) {
				gotRID = c.GetHeader(apiclient.RequestIDHeader)
				response.Success(c, http.StatusOK, nil, "", nil)
			})
		})
		_, err := newClient(t, srv.URL).Get(context.Background(), "/x")
		require.NoError(t, err)
		assert.NotEmpty(t, gotRID)
	})

	t.Run("non-2xx becomes app error", func(t *testing.T) {
		srv := setupServer(t, func(r *gin.Engine) {
			r.DELETE("/api/v1/departments/:id", func(c *gin.Context) {
				response.Error(c, http.StatusNotFound, "Department not found")
			})
		})
		_, err := newClient(t, srv.URL).Delete(context.Background(), "/api/v1/departments/9")

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
		assert.Equal(t, "Department not found", appErr.Message)
		assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	})

	t.Run("success false becomes request failed", func(t *testing.T) {
		srv := setupServer(t, func(r *gin.Engine) {
			r.POST("/api/v1/departments", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "nope", "errors": []string{"code taken"}})
			})
		})
		_, err := newClient(t, srv.URL).Post(context.Background(), "/api/v1/departments", map[string]string{"code": "HR"})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeRequestFailed, appErr.Code)
		assert.Equal(t, []string{"code taken"}, appErr.Details)
	})
}

func TestClient_Retry(t *testing.T) {
	t.Run("get retries 503", func(t *testing.T) {
		var calls atomic.Int32
		srv := setupServer(t, func(r *gin.Engine) {
			r.GET("/api/v1/departments/active", func(c *gin.Context) {
				if calls.Add(1) < 3 {
					c.Status(http.StatusServiceUnavailable)
					return
				}
				response.Success(c, http.StatusOK, []int{1}, "", nil)
			})
		})

		_, err := newClient(t, srv.URL).Get(context.Background(), "/api/v1/departments/active")
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after retries", func(t *testing.T) {
		var calls atomic.Int32
		srv := setupServer(t, func(r *gin.Engine) {
			r.GET("/x", func(c *gin.Context) {
				calls.Add(1)
				c.Status(http.StatusBadGateway)
			})
		})

		_, err := newClient(t, srv.URL).Get(context.Background(), "/x")
		assert.ErrorIs(t, err, apperror.ErrInternal)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("post is never retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := setupServer(t, func(r *gin.Engine) {
			r.POST("/x", func(c *gin.Context) {
				calls.Add(1)
				c.Status(http.StatusServiceUnavailable)
			})
		})

		_, err := newClient(t, srv.URL).Post(context.Background(), "/x", gin.H{})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeServiceUnavailable, appErr.Code)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := setupServer(t, func(r *gin.Engine) {
		r.GET("/slow", func(c *gin.Context) {
			select {
			case <-release:
			case <-c.Request.Context().Done():
			}
		})
	})
	defer close(release)

	client := newClient(t, srv.URL, func(cfg *apiclient.Config) {
		cfg.Timeout = 30 * time.Millisecond
		cfg.Retries = 0
	})

	_, err := client.Get(context.Background(), "/slow")
	assert.ErrorIs(t, err, apperror.ErrNetwork)
}

func TestClient_Credentials(t *testing.T) {
	sign := func(t *testing.T, exp time.Time) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		return token
	}

	t.Run("valid jwt is attached", func(t *testing.T) {
		token := sign(t, time.Now().Add(time.Hour))
		var got string
		srv := setupServer(t, func(r *gin.Engine) {
			r.GET("/x", func(c *gin.Context) {
				got = c.GetHeader("Authorization")
				response.Success(c, http.StatusOK, nil, "", nil)
			})
		})
		client := newClient(t, srv.URL, func(cfg *apiclient.Config) {
			cfg.Credentials = apiclient.NewBearerToken(token)
		})

		_, err := client.Get(context.Background(), "/x")
		require.NoError(t, err)
		assert.Equal(t, "Bearer "+token, got)
	})

	t.Run("expired jwt fails locally", func(t *testing.T) {
		var calls atomic.Int32
		srv := setupServer(t, func(r *gin.Engine) {
			r.GET("/x", func(c *gin.Context) { calls.Add(1) })
		})
		client := newClient(t, srv.URL, func(cfg *apiclient.Config) {
			cfg.Credentials = apiclient.NewBearerToken(sign(t, time.Now().Add(-time.Minute)))
		})

		_, err := client.Get(context.Background(), "/x")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		assert.Zero(t, calls.Load())
	})

	t.Run("opaque token is attached as is", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, apiclient.NewBearerToken("opaque-token").Apply(req))
		assert.Equal(t, "Bearer opaque-token", req.Header.Get("Authorization"))
	})
}

func TestClient_Upload(t *testing.T) {
	srv := setupServer(t, func(r *gin.Engine) {
		r.POST("/api/v1/employees/:id/image", func(c *gin.Context) {
			fh, err := c.FormFile("file")
			if err != nil {
				response.Error(c, http.StatusBadRequest, err.Error())
				return
			}
			f, _ := fh.Open()
			defer f.Close()
			b, _ := io.ReadAll(f)
			response.Success(c, http.StatusOK, fh.Filename+":"+fh.Header.Get("Content-Type")+":"+string(b), "Image uploaded successfully", nil)
		})
	})

	env, err := newClient(t, srv.URL).Upload(context.Background(), "/api/v1/employees/5/image", "file", "me.png", "image/png", []byte("PNG"))
	require.NoError(t, err)

	got, err := apiclient.DecodeData[string](env)
	require.NoError(t, err)
	assert.Equal(t, "me.png:image/png:PNG", got)
	assert.Equal(t, "Image uploaded successfully", env.Message)
}

func TestClient_Fetch(t *testing.T) {
	srv := setupServer(t, func(r *gin.Engine) {
		r.GET("/api/v1/images/download/:name", func(c *gin.Context) {
			if c.Param("name") != "a.png" {
				c.Status(http.StatusNotFound)
				return
			}
			c.Data(http.StatusOK, "image/png", []byte("PNG"))
		})
	})
	client := newClient(t, srv.URL)

	body, ct, err := client.Fetch(context.Background(), "/api/v1/images/download/a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("PNG"), body)
	assert.Equal(t, "image/png", ct)

	_, _, err = client.Fetch(context.Background(), "/api/v1/images/download/b.png")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
