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

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorWithDataCarriesRequestID(t *testing.T) {
	c, w := newTestContext()
	c.Set("request_id", "req-9")

	ErrorWithData(c, CodeConflict, "slug taken", gin.H{"locale": "en", "slug": "hello"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, float64(CodeConflict), body["status_code"])
	assert.Equal(t, "req-9", body["request_id"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "hello", data["slug"])
	assert.NotContains(t, data, "request_id")
}

func TestSuccessOmitsRequestIDAndPagination(t *testing.T) {
	c, w := newTestContext()
	c.Set("request_id", "req-1")

	Success(c, gin.H{"id": "p-1"})

	body := decodeEnvelope(t, w)
	assert.Equal(t, float64(CodeOK), body["status_code"])
	assert.NotContains(t, body, "request_id")
	assert.NotContains(t, body, "pagination")
}

func TestSuccessWithPage(t *testing.T) {
	c, w := newTestContext()

	SuccessWithPage(c, []string{"a"}, Pagination{Page: 2, PageSize: 1, Total: 3, TotalPage: 3})

	body := decodeEnvelope(t, w)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(3), pagination["total_page"])
}

func TestSuccessNoStoreSetsHeaders(t *testing.T) {
	c, w := newTestContext()

	SuccessNoStore(c, nil)

	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("X-Robots-Tag"), "noindex")
}
