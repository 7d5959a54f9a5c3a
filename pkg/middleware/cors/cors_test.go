package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestNewAllowsAnyOriginWhenListEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	engine.Use(New(nil))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	engine.ServeHTTP(w, req)

	require.Equal(t, "https://anywhere.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsOriginNotInAllowList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	engine.Use(New([]string{"https://trusted.example"}))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Origin", "https://evil.example")
	engine.ServeHTTP(w, req)

	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewAllowsOriginInAllowListIgnoringTrailingSlash(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	engine.Use(New([]string{"https://trusted.example/"}))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Origin", "https://trusted.example")
	engine.ServeHTTP(w, req)

	require.Equal(t, "https://trusted.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewShortCircuitsPreflightRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	reached := false
	engine.Use(New(nil))
	engine.OPTIONS("/probe", func(c *gin.Context) { reached = true; c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodOptions, "/probe", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.False(t, reached)
}
