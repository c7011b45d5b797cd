package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code    int
	Message string
}

type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// ResolveEndpoint adapts a HandlerFunc into a gin handler with uniform
// error and success envelopes.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

// Controller is the gin group a Module mounts its endpoints on.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFunc)  { c.Group.GET(path, ResolveEndpoint(h)) }
func (c *Controller) POST(path string, h HandlerFunc) { c.Group.POST(path, ResolveEndpoint(h)) }
func (c *Controller) PUT(path string, h HandlerFunc)  { c.Group.PUT(path, ResolveEndpoint(h)) }
