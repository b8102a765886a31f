package http

import "github.com/gin-gonic/gin"

// Register attaches the public node routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/nodes", h.create)
	rg.GET("/nodes", h.listLive)
	rg.GET("/nodes/:id", h.get)
	rg.GET("/nodes/:id/ancestry", h.ancestry)
	rg.GET("/iterations/:id/tree", h.tree)
	rg.GET("/search", h.search)
	rg.GET("/stats", h.stats)
}

// RegisterAdmin attaches the moderation routes; the caller is expected to
// guard the group with the admin key middleware.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/pending", h.listPending)
	rg.POST("/nodes/:id/approve", h.approve)
	rg.POST("/nodes/:id/reject", h.reject)
	rg.POST("/wither", h.wither)
}
