package http

import "github.com/gin-gonic/gin"

// Register attaches the public iteration routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/iterations", h.list)
	rg.GET("/iterations/active", h.active)
	rg.GET("/iterations/:id", h.get)
}

// RegisterAdmin attaches the iteration-switch route; the caller guards the
// group with the admin key middleware.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/iterations", h.start)
}
