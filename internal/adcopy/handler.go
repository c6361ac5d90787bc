package adcopy

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler exposes ad copy generation over HTTP. When the primary
// generator fails (rate limit, network, bad key) it falls back to the
// template generator so the shop owner always gets usable copy.
type Handler struct {
	Primary  Generator
	Fallback Generator
}

func NewHandler(primary, fallback Generator) *Handler {
	return &Handler{Primary: primary, Fallback: fallback}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/adcopy", h.HandleGenerate)
}

func (h *Handler) HandleGenerate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ad copy request"})
		return
	}
	if req.ShopName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "shop name is required"})
		return
	}

	gen := h.Primary
	if gen == nil {
		gen = h.Fallback
	}

	creative, err := gen.Generate(c.Request.Context(), req)
	if err != nil && h.Fallback != nil && gen != h.Fallback {
		log.Printf("[!] ad copy generator failed, using templates: %v", err)
		creative, err = h.Fallback.Generate(c.Request.Context(), req)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ad copy generation failed"})
		return
	}

	c.JSON(http.StatusOK, creative)
}
