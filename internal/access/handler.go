package access

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const deviceHeader = "X-Device-ID"

// Handler exposes the usage counter and code redemption over HTTP.
type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/access/remaining", h.HandleRemaining)
	r.POST("/api/access/redeem", h.HandleRedeem)
}

// Gate returns middleware that spends one render credit per request.
// Requests without a device id are rejected; requests from devices that
// are out of credits get 402 so the client can show the upgrade screen.
func (h *Handler) Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.GetHeader(deviceHeader)
		if deviceID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing device id"})
			return
		}

		ok, err := h.Store.Consume(c.Request.Context(), deviceID)
		if err != nil {
			log.Printf("[!] access check failed for %s: %v", deviceID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "access check failed"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "no renders left, redeem an access code"})
			return
		}
		c.Next()
	}
}

func (h *Handler) HandleRemaining(c *gin.Context) {
	deviceID := c.GetHeader(deviceHeader)
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing device id"})
		return
	}

	left, err := h.Store.Remaining(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "access check failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": left})
}

func (h *Handler) HandleRedeem(c *gin.Context) {
	deviceID := c.GetHeader(deviceHeader)
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing device id"})
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing access code"})
		return
	}

	credits, err := h.Store.Redeem(c.Request.Context(), deviceID, req.Code)
	switch {
	case errors.Is(err, ErrInvalidCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid access code"})
		return
	case err != nil:
		log.Printf("[!] redeem failed for %s: %v", deviceID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "redeem failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"credits": credits})
}
