// Package sharecode serializes the full offer state into a URL-safe
// token for share links and decodes it on the receiving side.
package sharecode

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thakurp/shopreel/internal/scene"
)

// ErrMalformedToken marks any decode failure. Handlers match it with
// errors.Is and show "invalid link" instead of crashing the preview.
var ErrMalformedToken = errors.New("malformed share token")

// State is the complete shareable offer: enough to rebuild the preview
// pipeline on the recipient's side, in read-only mode.
type State struct {
	OfferText     string         `json:"offerText"`
	ProductName   string         `json:"productName"`
	Discount      string         `json:"discount"`
	ShopType      string         `json:"shopType"`
	ShopName      string         `json:"shopName"`
	Language      scene.Language `json:"language"`
	Address       string         `json:"address"`
	ContactNumber string         `json:"contactNumber"`
	VideoScript   []string       `json:"videoScript,omitempty"`
	VideoTitles   []string       `json:"videoTitles,omitempty"`
}

// SceneInput converts the shared state into scene-model input.
func (s State) SceneInput() scene.Input {
	return scene.Input{
		OfferText:     s.OfferText,
		ProductName:   s.ProductName,
		Discount:      s.Discount,
		ShopType:      s.ShopType,
		ShopName:      s.ShopName,
		Address:       s.Address,
		ContactNumber: s.ContactNumber,
		Language:      s.Language,
		Script:        s.VideoScript,
		Titles:        s.VideoTitles,
	}
}

// Encode serializes state into a token that fits in a URL path segment.
func Encode(s State) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode share state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode reverses Encode. Every failure mode (bad base64, bad JSON,
// wrong shape) comes back wrapped in ErrMalformedToken.
func Decode(token string) (State, error) {
	if token == "" {
		return State{}, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if err := validate(s); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return s, nil
}

// validate checks structural shape before the state reaches a renderer.
func validate(s State) error {
	if s.ShopName == "" {
		return errors.New("missing shop name")
	}
	if n := len(s.VideoScript); n != 0 && n != scene.Count {
		return fmt.Errorf("videoScript has %d entries, want 0 or %d", n, scene.Count)
	}
	if n := len(s.VideoTitles); n != 0 && n != scene.Count {
		return fmt.Errorf("videoTitles has %d entries, want 0 or %d", n, scene.Count)
	}
	return nil
}
