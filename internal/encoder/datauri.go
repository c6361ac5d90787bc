package encoder

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// decodeDataURI accepts the "data:<mime>;base64,<payload>" form the
// export client sends, or a bare base64 payload. It returns the raw
// bytes and a file extension for the job directory.
func decodeDataURI(s string) ([]byte, string, error) {
	ext := ".png"
	payload := s

	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("data uri has no payload")
		}
		meta := s[len("data:"):comma]
		payload = s[comma+1:]

		if !strings.Contains(meta, ";base64") {
			return nil, "", fmt.Errorf("data uri is not base64")
		}
		switch {
		case strings.HasPrefix(meta, "image/jpeg"):
			ext = ".jpg"
		case strings.HasPrefix(meta, "image/webp"):
			ext = ".webp"
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image payload")
	}
	return data, ext, nil
}
