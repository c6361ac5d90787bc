package capture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/thakurp/shopreel/internal/scene"
	"github.com/thakurp/shopreel/internal/system"
)

// gradient is the two-stop vertical background for one visual style id.
type gradient struct {
	top    color.RGBA
	bottom color.RGBA
}

// Background style table, keyed by the scene policy's style ids.
var gradients = map[string]gradient{
	"sunrise": {color.RGBA{255, 153, 51, 255}, color.RGBA{255, 94, 98, 255}},
	"royal":   {color.RGBA{41, 128, 185, 255}, color.RGBA{44, 62, 80, 255}},
	"festive": {color.RGBA{231, 76, 60, 255}, color.RGBA{142, 36, 170, 255}},
	"leaf":    {color.RGBA{46, 204, 113, 255}, color.RGBA{22, 96, 54, 255}},
	"indigo":  {color.RGBA{63, 81, 181, 255}, color.RGBA{26, 35, 126, 255}},
}

var fallbackGradient = gradient{color.RGBA{52, 73, 94, 255}, color.RGBA{22, 30, 40, 255}}

// SceneRenderer composes one scene into a raster frame: gradient
// background, title and subtitle, optional product visual, and a
// share-link QR code on the contact scene.
type SceneRenderer struct {
	Width  int
	Height int

	visual   image.Image // optional user-supplied product visual
	shareURL string

	titleFace    font.Face
	subtitleFace font.Face
}

// NewSceneRenderer builds a renderer for the given frame size. visual
// may be nil; shareURL may be empty (no QR code drawn).
func NewSceneRenderer(width, height int, visual image.Image, shareURL string) (*SceneRenderer, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	titleSize := float64(height) / 9
	subSize := float64(height) / 18

	titleFace, err := opentype.NewFace(bold, &opentype.FaceOptions{Size: titleSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("title face: %w", err)
	}
	subtitleFace, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: subSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("subtitle face: %w", err)
	}

	return &SceneRenderer{
		Width:        width,
		Height:       height,
		visual:       visual,
		shareURL:     shareURL,
		titleFace:    titleFace,
		subtitleFace: subtitleFace,
	}, nil
}

// Render draws the scene into a frame. Frames come from a shared pool;
// return them with system.PutImage once the pixels have been consumed.
// The gradient pass overwrites every pixel, so recycled buffers are safe.
func (r *SceneRenderer) Render(s scene.Scene) (*image.RGBA, error) {
	frame := system.GetImage(image.Rect(0, 0, r.Width, r.Height))
	r.drawGradient(frame, s.Background)

	if s.Kind == scene.KindProduct && r.visual != nil {
		r.drawVisual(frame, r.visual)
	}

	r.drawCenteredText(frame, s.Title, r.titleFace, r.Height*5/12)
	r.drawCenteredText(frame, s.Subtitle, r.subtitleFace, r.Height*7/12)

	if s.Kind == scene.KindContact && r.shareURL != "" {
		if err := r.drawQR(frame); err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
	}
	return frame, nil
}

func (r *SceneRenderer) drawGradient(frame *image.RGBA, style string) {
	g, ok := gradients[style]
	if !ok {
		g = fallbackGradient
	}
	h := frame.Bounds().Dy()
	w := frame.Bounds().Dx()
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h-1)
		c := color.RGBA{
			R: lerp(g.top.R, g.bottom.R, t),
			G: lerp(g.top.G, g.bottom.G, t),
			B: lerp(g.top.B, g.bottom.B, t),
			A: 255,
		}
		for x := 0; x < w; x++ {
			frame.SetRGBA(x, y, c)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawVisual scales the product image into the upper third of the frame,
// preserving aspect ratio.
func (r *SceneRenderer) drawVisual(frame *image.RGBA, visual image.Image) {
	maxW := r.Width / 3
	maxH := r.Height / 3
	vb := visual.Bounds()
	scale := minf(float64(maxW)/float64(vb.Dx()), float64(maxH)/float64(vb.Dy()))
	dw := int(float64(vb.Dx()) * scale)
	dh := int(float64(vb.Dy()) * scale)
	if dw < 1 || dh < 1 {
		return
	}

	x0 := (r.Width - dw) / 2
	y0 := r.Height / 24
	dst := image.Rect(x0, y0, x0+dw, y0+dh)
	xdraw.BiLinear.Scale(frame, dst, visual, vb, draw.Over, nil)
}

func (r *SceneRenderer) drawCenteredText(frame *image.RGBA, text string, face font.Face, baselineY int) {
	if text == "" {
		return
	}
	width := font.MeasureString(face, text).Ceil()
	x := (r.Width - width) / 2
	if x < 0 {
		x = 0
	}
	d := font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, baselineY),
	}
	// Soft shadow first for legibility on bright gradients.
	d.Src = image.NewUniform(color.RGBA{0, 0, 0, 120})
	d.Dot = fixed.P(x+2, baselineY+2)
	d.DrawString(text)
	d.Src = image.NewUniform(color.White)
	d.Dot = fixed.P(x, baselineY)
	d.DrawString(text)
}

func (r *SceneRenderer) drawQR(frame *image.RGBA) error {
	size := r.Height / 4
	q, err := qrcode.New(r.shareURL, qrcode.Medium)
	if err != nil {
		return err
	}
	img := q.Image(size)
	x0 := r.Width - size - r.Width/24
	y0 := r.Height - size - r.Height/24
	draw.Draw(frame, image.Rect(x0, y0, x0+size, y0+size), img, img.Bounds().Min, draw.Over)
	return nil
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
