// Package encoder is the server-side render backend: it turns an
// ordered set of scene snapshots plus narration scripts into one
// downloadable MP4.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thakurp/shopreel/internal/scene"
	"github.com/thakurp/shopreel/internal/system"
)

var (
	// ErrNoImages rejects a render request before any work is done.
	ErrNoImages = errors.New("no images provided")
	// ErrEncodeFailed marks a backend/encoding failure. No partial or
	// corrupt file is ever returned alongside it.
	ErrEncodeFailed = errors.New("rendering failed")
)

// RenderRequest is the render endpoint body.
type RenderRequest struct {
	Images   []string `json:"images" binding:"required"`
	Script   []string `json:"script"`
	Language string   `json:"language"`
}

// Synthesizer is the pre-rendered-audio narration variant used on the
// server: resolve and download one scene's narration into a file.
type Synthesizer interface {
	SynthesizeToFile(ctx context.Context, text string, lang scene.Language, path string) error
}

// Runner invokes the media-encoding backend. Separated out so tests can
// substitute a scripted backend for ffmpeg.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner shells out with combined output folded into the error.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %v, output: %s", name, err, string(out))
	}
	return nil
}

// maxTTSDownloads bounds concurrent narration fetches per job.
const maxTTSDownloads = 4

// Encoder assembles slideshow videos. Safe for concurrent jobs: every
// job gets its own uuid-named temp directory and never reads another
// job's files.
type Encoder struct {
	TTS          Synthesizer
	Runner       Runner
	WorkDir      string  // parent for job dirs; "" means the OS default
	VideoEncoder string  // h264 encoder name, e.g. libx264
	ImageSeconds float64 // per-image display duration
}

func New(tts Synthesizer, videoEncoder string) *Encoder {
	return &Encoder{
		TTS:          tts,
		Runner:       ExecRunner{},
		VideoEncoder: videoEncoder,
		ImageSeconds: ImageSeconds,
	}
}

// Result is a finished render.
type Result struct {
	SessionID string
	Video     []byte
}

// Render runs one job to completion. The job's temporary directory is
// removed on every exit path, success or failure.
func (e *Encoder) Render(ctx context.Context, req RenderRequest) (*Result, error) {
	if len(req.Images) == 0 {
		return nil, ErrNoImages
	}

	sessionID := uuid.NewString()
	dir, err := os.MkdirTemp(e.WorkDir, "shopreel_"+sessionID+"_")
	if err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}
	defer os.RemoveAll(dir)

	log.Printf("[*] render job %s: %d images, %d script lines", sessionID, len(req.Images), len(req.Script))

	imagePaths, err := e.writeImages(dir, req.Images)
	if err != nil {
		return nil, err
	}

	lang := scene.Language(req.Language)
	audioPaths := e.fetchNarration(ctx, dir, req.Script, lang)

	video, err := e.encode(ctx, dir, imagePaths, audioPaths)
	if err != nil {
		return nil, err
	}

	log.Printf("[+] render job %s: %d bytes", sessionID, len(video))
	return &Result{SessionID: sessionID, Video: video}, nil
}

func (e *Encoder) writeImages(dir string, images []string) ([]string, error) {
	paths := make([]string, len(images))
	for i, img := range images {
		data, ext, err := decodeDataURI(img)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		p := filepath.Join(dir, fmt.Sprintf("scene_%02d%s", i, ext))
		if err := os.WriteFile(p, data, 0644); err != nil {
			return nil, fmt.Errorf("write image %d: %w", i, err)
		}
		paths[i] = p
	}
	return paths, nil
}

// fetchNarration downloads per-scene audio concurrently. Order of
// completion does not matter; the result slice is indexed by scene so
// the manifest keeps scene order. A failed or empty scene stays silent
// and never fails the job.
func (e *Encoder) fetchNarration(ctx context.Context, dir string, script []string, lang scene.Language) []string {
	paths := make([]string, len(script))
	if e.TTS == nil {
		return paths
	}

	var g errgroup.Group
	g.SetLimit(maxTTSDownloads)
	for i, text := range script {
		if text == "" {
			continue
		}
		i, text := i, text
		g.Go(func() error {
			p := filepath.Join(dir, fmt.Sprintf("narration_%02d.mp3", i))
			if err := e.TTS.SynthesizeToFile(ctx, text, lang, p); err != nil {
				log.Printf("[!] narration %d failed, scene will be silent: %v", i, err)
				return nil
			}
			paths[i] = p
			return nil
		})
	}
	g.Wait()
	return paths
}

// encode writes the concat manifests and invokes the media backend. If
// no audio clip survived, the audio input is omitted entirely and the
// result is a silent but valid MP4.
func (e *Encoder) encode(ctx context.Context, dir string, imagePaths, audioPaths []string) ([]byte, error) {
	seconds := e.ImageSeconds
	if seconds <= 0 {
		seconds = ImageSeconds
	}

	imagesTxt := filepath.Join(dir, "images.txt")
	if err := os.WriteFile(imagesTxt, []byte(imageManifest(imagePaths, seconds)), 0644); err != nil {
		return nil, fmt.Errorf("write image manifest: %w", err)
	}

	outPath := filepath.Join(dir, "out.mp4")
	args := []string{
		"-y",
		"-f", "concat", "-safe", "0", "-i", imagesTxt,
	}

	withAudio := audioClipCount(audioPaths) > 0
	if withAudio {
		audioTxt := filepath.Join(dir, "audio.txt")
		if err := os.WriteFile(audioTxt, []byte(audioManifest(audioPaths)), 0644); err != nil {
			return nil, fmt.Errorf("write audio manifest: %w", err)
		}
		args = append(args, "-f", "concat", "-safe", "0", "-i", audioTxt)
	}

	encoderName := e.VideoEncoder
	if encoderName == "" {
		encoderName = "libx264"
	}

	args = append(args,
		"-c:v", encoderName,
		"-pix_fmt", "yuv420p",
		"-r", "30",
	)
	if withAudio {
		args = append(args, "-c:a", "aac", "-b:a", "192k", "-shortest")
	}
	args = append(args, "-movflags", "+faststart", outPath)

	if err := e.Runner.Run(ctx, "ffmpeg", args...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	// Duration is informational; a probe failure never fails the job.
	if dur, err := system.ProbeDuration(outPath); err == nil {
		log.Printf("[*] output duration %.1fs", dur)
	}

	video, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read output: %v", ErrEncodeFailed, err)
	}
	return video, nil
}
