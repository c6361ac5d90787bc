package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/thakurp/shopreel/internal/encoder"
)

// Client talks to the remote render endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: http.DefaultClient}
}

// Render posts the capture payload and returns the video bytes. Error
// responses are expected to be JSON with a message, but non-JSON bodies
// are tolerated and reported as an opaque failure.
func (c *Client) Render(ctx context.Context, req encoder.RenderRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode render request: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/render", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("render endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var msg struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Error != "" {
			return nil, fmt.Errorf("render endpoint: %s", msg.Error)
		}
		return nil, fmt.Errorf("render endpoint returned status %d", resp.StatusCode)
	}

	video, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read video: %w", err)
	}
	if len(video) == 0 {
		return nil, fmt.Errorf("render endpoint returned an empty file")
	}
	return video, nil
}
