package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-core/internal/middleware"
)

func callerFromContext(c *gin.Context) string {
	value, exists := c.Get(middleware.ContextCallerKey)
	if !exists {
		return ""
	}
	caller, _ := value.(string)
	return caller
}
