package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareGeneratesIDWhenHeaderAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	var captured string
	engine.Use(Middleware())
	engine.GET("/probe", func(c *gin.Context) { captured = Value(c) })

	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	engine.ServeHTTP(w, req)

	require.NotEmpty(t, captured)
	require.Equal(t, captured, w.Header().Get(headerKey))
}

func TestMiddlewarePreservesIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	var captured string
	engine.Use(Middleware())
	engine.GET("/probe", func(c *gin.Context) { captured = Value(c) })

	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(headerKey, "fixed-id-123")
	engine.ServeHTTP(w, req)

	require.Equal(t, "fixed-id-123", captured)
	require.Equal(t, "fixed-id-123", w.Header().Get(headerKey))
}

func TestValueReturnsEmptyWhenUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	require.Empty(t, Value(c))
}
