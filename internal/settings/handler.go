package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the editable site copy.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) get(c *gin.Context) {
	s, err := h.store.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": s})
}

func (h *Handler) update(c *gin.Context) {
	var u Update
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	s, err := h.store.Update(c.Request.Context(), u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "settings": s})
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/settings", h.get)
}

func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.PUT("/settings", h.update)
}
