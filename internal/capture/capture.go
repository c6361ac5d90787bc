// Package capture turns a rendered scene surface into a still image
// snapshot for the export pipeline.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/thakurp/shopreel/internal/scene"
	"github.com/thakurp/shopreel/internal/system"
)

// Surface is anything that can draw itself into a raster frame. Callers
// are responsible for the surface being visually settled before capture.
type Surface interface {
	Render() (*image.RGBA, error)
}

// Service snapshots a surface into PNG bytes. A capture failure is fatal
// to the whole export: a missing frame breaks the ordered sequence, so
// the error is returned rather than the scene being skipped.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Capture(surface Surface) ([]byte, error) {
	frame, err := surface.Render()
	if err != nil {
		return nil, fmt.Errorf("render surface: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		system.PutImage(frame)
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	system.PutImage(frame)
	return buf.Bytes(), nil
}

// SurfaceFunc adapts a function to the Surface interface.
type SurfaceFunc func() (*image.RGBA, error)

func (f SurfaceFunc) Render() (*image.RGBA, error) { return f() }

// SceneSurface binds a renderer to a live scene getter so the captured
// frame always reflects the scheduler's current scene.
func SceneSurface(r *SceneRenderer, current func() scene.Scene) Surface {
	return SurfaceFunc(func() (*image.RGBA, error) {
		return r.Render(current())
	})
}
