// Package visual loads the optional user-supplied product visual for
// the product scene. A visual can be a plain image or a PDF catalog
// page, in which case the first page is rasterized.
package visual

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// Source yields the product visual as a decoded image.
type Source interface {
	Image() (image.Image, error)
	Close() error
}

// Open picks a source by file extension.
func Open(path string) (Source, error) {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return newPDFSource(path)
	}
	return &imageSource{path: path}, nil
}

type imageSource struct {
	path string
}

func (s *imageSource) Image() (image.Image, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return img, nil
}

func (s *imageSource) Close() error { return nil }

type pdfSource struct {
	doc *fitz.Document
}

func newPDFSource(path string) (*pdfSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	if doc.NumPage() == 0 {
		doc.Close()
		return nil, fmt.Errorf("pdf %s has no pages", path)
	}
	return &pdfSource{doc: doc}, nil
}

// renderDPI keeps the first page crisp enough for a scene inset without
// rasterizing a poster-size bitmap.
const renderDPI = 150

func (s *pdfSource) Image() (image.Image, error) {
	return s.doc.ImageDPI(0, renderDPI)
}

func (s *pdfSource) Close() error { return s.doc.Close() }
