package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/timetable-core/pkg/config"
	"github.com/noah-isme/timetable-core/pkg/middleware/requestid"
)

func TestNewBuildsDevelopmentJSONLoggerByDefault(t *testing.T) {
	cfg := &config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "warn", Format: "json"}}

	l, err := New(cfg)

	require.NoError(t, err)
	require.NotNil(t, l)
	require.True(t, l.Core().Enabled(zapcore.WarnLevel))
	require.False(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNewFallsBackToInfoOnInvalidLevel(t *testing.T) {
	cfg := &config.Config{Env: config.EnvProduction, Log: config.LogConfig{Level: "not-a-level", Format: "console"}}

	l, err := New(cfg)

	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestGinMiddlewareLogsRequestWithoutPanicking(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvDevelopment, Log: config.LogConfig{Level: "info", Format: "json"}}
	l, err := New(cfg)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	_, engine := gin.CreateTestContext(w)
	engine.Use(requestid.Middleware(), GinMiddleware(l))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/probe", nil)
	require.NotPanics(t, func() { engine.ServeHTTP(w, req) })
	require.Equal(t, http.StatusOK, w.Code)
}
