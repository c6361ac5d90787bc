package sharecode

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler serves share-link creation and resolution. A resolved link
// returns the offer state in read-only form; the recipient's preview
// must not be editable.
type Handler struct {
	// PublicBaseURL is prepended to generated links so they open from
	// anywhere, not just the creator's device.
	PublicBaseURL string
}

func NewHandler(publicBaseURL string) *Handler {
	return &Handler{PublicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/share", h.HandleCreate)
	r.GET("/v/:token", h.HandleResolve)
}

// HandleCreate encodes the posted offer state into a share URL.
func (h *Handler) HandleCreate(c *gin.Context) {
	var state State
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid share request"})
		return
	}
	if err := validate(state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := Encode(state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create share link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"url":   h.PublicBaseURL + "/v/" + token,
	})
}

// HandleResolve decodes a share token back into offer state. Any
// malformed token maps to the same "invalid link" answer so recipients
// see one consistent error page.
func (h *Handler) HandleResolve(c *gin.Context) {
	state, err := Decode(c.Param("token"))
	if err != nil {
		if errors.Is(err, ErrMalformedToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":    state,
		"readOnly": true,
	})
}
