package visual

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenImageSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "product.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	img, err := src.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("bounds %v, want 8x8", b)
	}
}

func TestOpenMissingImage(t *testing.T) {
	src, err := Open(filepath.Join(t.TempDir(), "nope.jpg"))
	if err != nil {
		t.Fatalf("Open is lazy for images, got %v", err)
	}
	if _, err := src.Image(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestOpenMissingPDF(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing pdf")
	}
}
