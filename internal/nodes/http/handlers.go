package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/owenjoycecoughlan/Offsets/internal/guard"
	iterdomain "github.com/owenjoycecoughlan/Offsets/internal/iterations/domain"
	iterservice "github.com/owenjoycecoughlan/Offsets/internal/iterations/service"
	"github.com/owenjoycecoughlan/Offsets/internal/nodes/domain"
	"github.com/owenjoycecoughlan/Offsets/internal/nodes/service"
)

// Handler exposes the node forest over HTTP. It resolves the active
// iteration for callers that omit one; the services themselves always take
// an explicit iteration ID.
type Handler struct {
	nodes      *service.NodeService
	moderation *service.ModerationService
	lifecycle  *service.LifecycleService
	iterations *iterservice.IterationService
	guard      *guard.SubmissionGuard
}

func NewHandler(
	nodes *service.NodeService,
	moderation *service.ModerationService,
	lifecycle *service.LifecycleService,
	iterations *iterservice.IterationService,
	g *guard.SubmissionGuard,
) *Handler {
	return &Handler{
		nodes:      nodes,
		moderation: moderation,
		lifecycle:  lifecycle,
		iterations: iterations,
		guard:      g,
	}
}

func (h *Handler) create(c *gin.Context) {
	if h.guard != nil && !h.guard.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "please wait before submitting again"})
		return
	}

	var req createNodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	iterationID := req.IterationID
	if iterationID == "" {
		it, err := h.iterations.Active(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		iterationID = it.ID
	}

	n, err := h.nodes.Create(c.Request.Context(), domain.NewNode{
		AuthorName:  req.AuthorName,
		Content:     req.Content,
		ParentID:    req.ParentID,
		IterationID: iterationID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "node": n})
}

func (h *Handler) listLive(c *gin.Context) {
	iterationID, ok := h.iterationParam(c)
	if !ok {
		return
	}
	nodes, err := h.nodes.Live(c.Request.Context(), iterationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "nodes": newNodeViews(nodes)})
}

func (h *Handler) get(c *gin.Context) {
	nc, err := h.nodes.Context(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "node": newNodeContextView(nc)})
}

func (h *Handler) ancestry(c *gin.Context) {
	chain, err := h.nodes.Ancestry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "ancestry": newNodeViews(chain)})
}

func (h *Handler) tree(c *gin.Context) {
	iterationID := c.Param("id")
	if _, err := h.iterations.Get(c.Request.Context(), iterationID); err != nil {
		respondError(c, err)
		return
	}
	nodes, err := h.nodes.Tree(c.Request.Context(), iterationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "nodes": newNodeViews(nodes)})
}

func (h *Handler) search(c *gin.Context) {
	results, err := h.nodes.Search(c.Request.Context(), c.Query("q"), domain.Status(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "results": newNodeViews(results)})
}

func (h *Handler) stats(c *gin.Context) {
	iterationID, ok := h.iterationParam(c)
	if !ok {
		return
	}
	stats, err := h.nodes.Stats(c.Request.Context(), iterationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

func (h *Handler) listPending(c *gin.Context) {
	iterationID, ok := h.iterationParam(c)
	if !ok {
		return
	}
	pending, err := h.nodes.Pending(c.Request.Context(), iterationID)
	if err != nil {
		respondError(c, err)
		return
	}
	// Moderators see authors; no anonymity shaping here.
	c.JSON(http.StatusOK, gin.H{"ok": true, "nodes": pending})
}

func (h *Handler) approve(c *gin.Context) {
	n, err := h.moderation.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "node": n})
}

func (h *Handler) reject(c *gin.Context) {
	n, err := h.moderation.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "node": n})
}

func (h *Handler) wither(c *gin.Context) {
	iterationID, ok := h.iterationParam(c)
	if !ok {
		return
	}
	count, err := h.lifecycle.Sweep(c.Request.Context(), iterationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "withered_count": count, "timestamp": time.Now().UTC()})
}

// iterationParam reads the ?iteration= query, falling back to the active
// iteration. Writes the error response itself on failure.
func (h *Handler) iterationParam(c *gin.Context) (string, bool) {
	if id := c.Query("iteration"); id != "" {
		return id, true
	}
	it, err := h.iterations.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return it.ID, true
}

// respondError maps the core error taxonomy onto status codes: validation
// 400, missing entities 404, forbidden transitions 409.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, iterdomain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNodeNotFound), errors.Is(err, iterdomain.ErrIterationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
