package capture

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/thakurp/shopreel/internal/scene"
)

func buildScenes(t *testing.T) [scene.Count]scene.Scene {
	t.Helper()
	return scene.Build(scene.Input{
		ProductName:   "Mobile Cover",
		Discount:      "50% OFF",
		ShopName:      "Sharma Store",
		Address:       "12 MG Road, Pune",
		ContactNumber: "9876543210",
		Language:      scene.LangOther,
	})
}

func TestCaptureProducesDecodablePNG(t *testing.T) {
	r, err := NewSceneRenderer(640, 360, nil, "")
	if err != nil {
		t.Fatalf("NewSceneRenderer: %v", err)
	}
	scenes := buildScenes(t)
	svc := NewService()

	for _, s := range scenes {
		cur := s
		data, err := svc.Capture(SceneSurface(r, func() scene.Scene { return cur }))
		if err != nil {
			t.Fatalf("capture scene %d: %v", s.Index, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("scene %d: snapshot not decodable: %v", s.Index, err)
		}
		if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 360 {
			t.Errorf("scene %d: bounds %v", s.Index, b)
		}
	}
}

func TestCaptureFailurePropagates(t *testing.T) {
	svc := NewService()
	wantErr := errors.New("surface torn down")
	_, err := svc.Capture(SurfaceFunc(func() (*image.RGBA, error) {
		return nil, wantErr
	}))
	if err == nil || !errors.Is(err, wantErr) {
		t.Fatalf("capture error %v, want wrapped %v", err, wantErr)
	}
}

func TestRenderDistinctBackgroundsPerKind(t *testing.T) {
	r, err := NewSceneRenderer(320, 180, nil, "")
	if err != nil {
		t.Fatalf("NewSceneRenderer: %v", err)
	}
	scenes := buildScenes(t)

	seen := map[[4]uint32]int{}
	for _, s := range scenes {
		frame, err := r.Render(s)
		if err != nil {
			t.Fatalf("render scene %d: %v", s.Index, err)
		}
		rr, gg, bb, aa := frame.At(2, 2).RGBA()
		seen[[4]uint32{rr, gg, bb, aa}]++
	}
	if len(seen) != scene.Count {
		t.Errorf("expected %d distinct background styles, got %d", scene.Count, len(seen))
	}
}

func TestRenderProductVisualOnlyOnProductScene(t *testing.T) {
	visual := image.NewRGBA(image.Rect(0, 0, 100, 100))
	r, err := NewSceneRenderer(320, 180, visual, "")
	if err != nil {
		t.Fatalf("NewSceneRenderer: %v", err)
	}
	scenes := buildScenes(t)
	if _, err := r.Render(scenes[scene.KindProduct]); err != nil {
		t.Fatalf("render with visual: %v", err)
	}
}

func TestRenderQROnContactScene(t *testing.T) {
	r, err := NewSceneRenderer(320, 180, nil, "https://example.com/v/token")
	if err != nil {
		t.Fatalf("NewSceneRenderer: %v", err)
	}
	scenes := buildScenes(t)
	if _, err := r.Render(scenes[scene.KindContact]); err != nil {
		t.Fatalf("render contact scene with QR: %v", err)
	}
}
