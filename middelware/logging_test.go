package middelware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"telconova-dispatch/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLoggingRouter(log *MockLogger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewLoggingMiddleware(log, "/health")

	r := gin.New()
	r.Use(m.Recovery(), m.RequestID(), m.StructuredLogger())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func serve(r *gin.Engine, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStructuredLoggerLevels(t *testing.T) {
	log := &MockLogger{}
	log.On("Infof", "%s %s completed with %d", []interface{}{"GET", "/ok", 200}).Return().Once()
	log.On("Warnf", "%s %s rejected with %d", []interface{}{"GET", "/missing", 404}).Return().Once()
	r := newLoggingRouter(log)

	serve(r, "/ok", nil)
	serve(r, "/missing", nil)
	serve(r, "/health", nil)

	log.AssertExpectations(t)
	log.AssertNumberOfCalls(t, "Infof", 1)
}

func TestRequestID(t *testing.T) {
	r := newLoggingRouter(newMockLogger())

	w := serve(r, "/ok", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = serve(r, "/ok", http.Header{RequestIDHeader: []string{"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = serve(r, "/ok", http.Header{"x-request-id": []string{"def-456"}})
	assert.Equal(t, "def-456", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	log := newMockLogger()
	r := newLoggingRouter(log)

	w := serve(r, "/panic", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var response models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	assert.Equal(t, "An unexpected error occurred", response.Message)
	log.AssertCalled(t, "Errorf", "Panic recovered on %s %s: %v", mock.Anything)
}
