package encoder

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thakurp/shopreel/internal/system"
)

// Handler exposes the render endpoint over HTTP.
type Handler struct {
	Encoder *Encoder
}

func NewHandler(e *Encoder) *Handler {
	return &Handler{Encoder: e}
}

// Register mounts the render route on the router.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/render", h.HandleRender)
}

// HandleRender accepts the capture payload, runs the encode job and
// streams the MP4 back as an attachment. Failures come back as a
// structured JSON error with a human-readable message.
func (h *Handler) HandleRender(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid render request"})
		return
	}

	if free, ok := system.MemoryHeadroom(); ok && free < system.MinEncodeHeadroom {
		log.Printf("[!] low memory headroom before encode: %d MiB free", free/(1<<20))
	}

	result, err := h.Encoder.Render(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrNoImages):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images provided"})
		return
	case err != nil:
		log.Printf("[!] render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "video rendering failed"})
		return
	}

	filename := fmt.Sprintf("offer_video_%s.mp4", result.SessionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "video/mp4", result.Video)
}
