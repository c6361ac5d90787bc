package adcopy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, Request) (*Creative, error) {
	return nil, errors.New("upstream unavailable")
}

func serveAdCopy(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/adcopy", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerFallsBackToTemplates(t *testing.T) {
	h := NewHandler(failingGenerator{}, TemplateGenerator{})
	w := serveAdCopy(t, h, `{"shopName":"Sharma Store","productName":"Mobile Cover","discount":"50% OFF"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var creative Creative
	if err := json.Unmarshal(w.Body.Bytes(), &creative); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(creative.Text, "Sharma Store") {
		t.Errorf("fallback copy missing shop name: %q", creative.Text)
	}
}

func TestHandlerRejectsMissingShopName(t *testing.T) {
	h := NewHandler(nil, TemplateGenerator{})
	w := serveAdCopy(t, h, `{"productName":"Mobile Cover"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", w.Code)
	}
}
