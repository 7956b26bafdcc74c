package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hris-admin/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestNewPaginationInfo(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		p := response.NewPaginationInfo(2, 0, 10)
		assert.Equal(t, response.PaginationInfo{Page: 0, Size: 10, TotalElements: 2, TotalPages: 1, First: true, Last: true}, p)
	})

	t.Run("middle page", func(t *testing.T) {
		p := response.NewPaginationInfo(45, 2, 10)
		assert.Equal(t, 5, p.TotalPages)
		assert.False(t, p.First)
		assert.False(t, p.Last)
	})

	t.Run("empty", func(t *testing.T) {
		p := response.NewPaginationInfo(0, 0, 10)
		assert.Equal(t, 0, p.TotalPages)
		assert.True(t, p.Last)
	})
}

func TestDecodeItems(t *testing.T) {
	t.Run("page content", func(t *testing.T) {
		items, err := response.DecodeItems[row](json.RawMessage(`{"content":[{"id":1,"name":"HR"}],"number":0}`))
		require.NoError(t, err)
		assert.Equal(t, []row{{ID: 1, Name: "HR"}}, items)
	})

	t.Run("bare array", func(t *testing.T) {
		items, err := response.DecodeItems[row](json.RawMessage(` [{"id":2,"name":"IT"}]`))
		require.NoError(t, err)
		assert.Equal(t, []row{{ID: 2, Name: "IT"}}, items)
	})

	t.Run("null", func(t *testing.T) {
		items, err := response.DecodeItems[row](json.RawMessage(`null`))
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("scalar is rejected", func(t *testing.T) {
		_, err := response.DecodeItems[row](json.RawMessage(`true`))
		assert.Error(t, err)
	})
}

func TestWriters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		p := response.NewPaginationInfo(1, 0, 10)

		response.Success(c, http.StatusOK, []row{{ID: 1, Name: "HR"}}, "ok", &p)

		var env response.RawEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Success)
		assert.Equal(t, "ok", env.Message)
		assert.Equal(t, int64(1), env.Pagination.TotalElements)
	})

	t.Run("error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		response.Error(c, http.StatusConflict, "Department code already exists", "code")

		var env response.RawEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, []string{"code"}, env.Errors)
	})
}
