package httpapi

import (
	"github.com/gin-gonic/gin"
)

// Envelope wraps every response body.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

func respond[T any](c *gin.Context, status int, data T) {
	c.JSON(status, Envelope[T]{Success: true, Data: data})
}

func respondMessage[T any](c *gin.Context, status int, data T, message string) {
	c.JSON(status, Envelope[T]{Success: true, Data: data, Message: message})
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope[any]{Success: false, Message: message})
}
