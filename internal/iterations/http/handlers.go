package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/owenjoycecoughlan/Offsets/internal/iterations/domain"
	"github.com/owenjoycecoughlan/Offsets/internal/iterations/service"
)

type Handler struct {
	iterations *service.IterationService
}

func NewHandler(iterations *service.IterationService) *Handler {
	return &Handler{iterations: iterations}
}

type startReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.iterations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "iterations": items})
}

func (h *Handler) active(c *gin.Context) {
	it, err := h.iterations.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "iteration": it})
}

func (h *Handler) get(c *gin.Context) {
	it, err := h.iterations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "iteration": it})
}

func (h *Handler) start(c *gin.Context) {
	var req startReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	it, err := h.iterations.StartNew(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "iteration": it})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrIterationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
