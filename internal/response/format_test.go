package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResponseFormat tests the envelope shape of every builder
func TestResponseFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success Response Format", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Success(map[string]interface{}{"id": 123}).JSON(c, http.StatusOK)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		assert.Equal(t, true, body["success"])
		assert.Equal(t, MessageSuccess, body["message"])
		assert.NotNil(t, body["data"])
		_, hasError := body["error"]
		assert.False(t, hasError)
	})

	t.Run("Error Response Format", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Error(CodeBadRequest, "Text is required").JSON(c, http.StatusBadRequest)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Text is required", body["message"])
		assert.Nil(t, body["data"])
		_, hasData := body["data"]
		assert.True(t, hasData, "data must be present as null")

		errBody := body["error"].(map[string]interface{})
		assert.Equal(t, CodeBadRequest, errBody["code"])
		_, hasDetails := errBody["details"]
		assert.False(t, hasDetails)
	})

	t.Run("Error Response With Detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Error(CodeRateLimitExceeded, "slow down").
			WithDetail(map[string]int{"limit": 3}).
			JSON(c, http.StatusTooManyRequests)

		var body Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		require.NotNil(t, body.Error)
		assert.Equal(t, CodeRateLimitExceeded, body.Error.Code)
		assert.NotNil(t, body.Error.Details)
	})

	t.Run("Abort stops the chain", func(t *testing.T) {
		router := gin.New()
		reached := false
		router.GET("/x", func(c *gin.Context) {
			Error(CodeBadRequest, "nope").AbortJSON(c, http.StatusBadRequest)
		}, func(c *gin.Context) {
			reached = true
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, reached)
	})

	t.Run("Paginated Response Format", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		items := []map[string]interface{}{{"id": 1}, {"id": 2}}
		Paginated(items, 45, 2, 20).JSON(c, http.StatusOK)

		var body struct {
			Success bool          `json:"success"`
			Data    PaginatedData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

		assert.True(t, body.Success)
		assert.Equal(t, 2, body.Data.Meta.CurrentPage)
		assert.Equal(t, 20, body.Data.Meta.ItemsPerPage)
		assert.Equal(t, 45, body.Data.Meta.TotalItems)
		assert.Equal(t, 3, body.Data.Meta.TotalPages)
		assert.True(t, body.Data.Meta.HasNextPage)
		assert.True(t, body.Data.Meta.HasPreviousPage)
	})
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{name: "empty", page: 1, limit: 20, total: 0, totalPages: 0},
		{name: "single page", page: 1, limit: 20, total: 20, totalPages: 1},
		{name: "first of many", page: 1, limit: 10, total: 25, totalPages: 3, hasNext: true},
		{name: "last page", page: 3, limit: 10, total: 25, totalPages: 3, hasPrev: true},
		{name: "zero limit", page: 1, limit: 0, total: 5, totalPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewPaginationMeta(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
			assert.Equal(t, tt.hasNext, meta.HasNextPage)
			assert.Equal(t, tt.hasPrev, meta.HasPreviousPage)
		})
	}
}
