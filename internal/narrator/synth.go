package narrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/thakurp/shopreel/internal/scene"
)

// DefaultSynthTimeout bounds one lookup-plus-download round trip. The
// render pipeline must never hang on a single scene's audio.
const DefaultSynthTimeout = 20 * time.Second

// TTSClient is the server-side narration variant: instead of speaking
// through an audio device it asks the TTS backend for a fetchable audio
// resource and downloads it into the render job's temp directory.
type TTSClient struct {
	BaseURL string
	Client  *http.Client
}

func NewTTSClient(baseURL string) *TTSClient {
	return &TTSClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: DefaultSynthTimeout},
	}
}

type lookupResponse struct {
	AudioURL string `json:"audioUrl"`
}

// SynthesizeToFile resolves an audio URL for text and downloads it to
// path. Any failure is returned as an error; callers degrade the scene
// to silence rather than aborting the job.
func (t *TTSClient) SynthesizeToFile(ctx context.Context, text string, lang scene.Language, path string) error {
	audioURL, err := t.lookup(ctx, text, lang)
	if err != nil {
		return fmt.Errorf("tts lookup: %w", err)
	}
	if err := t.download(ctx, audioURL, path); err != nil {
		return fmt.Errorf("tts download: %w", err)
	}
	return nil
}

func (t *TTSClient) lookup(ctx context.Context, text string, lang scene.Language) (string, error) {
	q := url.Values{}
	q.Set("text", text)
	q.Set("lang", LocaleFor(lang))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.BaseURL+"/synthesize?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend status %d", resp.StatusCode)
	}

	var lr lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", err
	}
	if lr.AudioURL == "" {
		return "", fmt.Errorf("backend returned no audio url")
	}
	return lr.AudioURL, nil
}

func (t *TTSClient) download(ctx context.Context, audioURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return err
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio fetch status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
