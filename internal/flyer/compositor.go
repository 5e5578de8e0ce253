// Package flyer renders 1080x1350 event flyers.
package flyer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/munera-collective/munera-platform/internal/logging"
	"github.com/munera-collective/munera-platform/internal/metrics"
	"github.com/munera-collective/munera-platform/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 1080
	Height = 1350

	DefaultBrand = "MUNERA COLLECTIVE"
)

var (
	gradientTop    = color.NRGBA{R: 0x1a, G: 0x0f, B: 0x3e, A: 0xff}
	gradientBottom = color.NRGBA{R: 0x2d, G: 0x1b, B: 0x69, A: 0xff}
	white          = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	violet         = color.NRGBA{R: 0x8b, G: 0x5c, B: 0xf6, A: 0xff}
	blue           = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
)

// ImageLoader fetches and decodes a background photo.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

type Compositor struct {
	loader       ImageLoader
	imageTimeout time.Duration
	brand        string
}

func NewCompositor(loader ImageLoader, imageTimeout time.Duration, brand string) *Compositor {
	if imageTimeout <= 0 {
		imageTimeout = 10 * time.Second
	}

	if brand == "" {
		brand = DefaultBrand
	}

	return &Compositor{loader: loader, imageTimeout: imageTimeout, brand: brand}
}

// layer is one centred line of text.
type layer struct {
	text     string
	face     font.Face
	color    color.Color
	glow     color.Color
	glowBlur float64
	baseline int
}

// Render draws the flyer. A background that cannot be loaded in time is
// skipped and the flyer is drawn without it.
func (c *Compositor) Render(ctx context.Context, req models.FlyerRequest) (*image.NRGBA, error) {
	faces, err := loadFaces()
	if err != nil {
		return nil, err
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, Width, Height))
	fillGradient(canvas, gradientTop, gradientBottom)

	outcome := "none"
	if req.BackgroundURL != "" {
		if bg := c.loadBackground(ctx, req.BackgroundURL); bg != nil {
			drawCover(canvas, bg, 0.5)
			outcome = "loaded"
		} else {
			outcome = "fallback"
		}
	}

	for _, l := range c.layers(req, faces) {
		drawLayer(canvas, l)
	}

	metrics.FlyerRenders.WithLabelValues(outcome).Inc()

	return canvas, nil
}

// RenderPNG renders the flyer and encodes it with its download file name.
func (c *Compositor) RenderPNG(ctx context.Context, req models.FlyerRequest) ([]byte, string, error) {
	img, err := c.Render(ctx, req)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, "", fmt.Errorf("encoding flyer: %w", err)
	}

	return buf.Bytes(), FileName(req.Title), nil
}

// maxSlug caps the title part of a flyer file name.
const maxSlug = 80

// FileName is munera-flyer-<slug>.png where the slug keeps [a-z0-9] of the
// lowercased title and joins the runs between them with single dashes.
func FileName(title string) string {
	return fmt.Sprintf("munera-flyer-%s.png", slug(title))
}

func slug(title string) string {
	var b strings.Builder
	dash := false

	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}

	out := b.String()
	if len(out) > maxSlug {
		out = strings.TrimRight(out[:maxSlug], "-")
	}

	if out == "" {
		return "flyer"
	}

	return out
}

func (c *Compositor) loadBackground(ctx context.Context, url string) image.Image {
	logger := logging.FromContext(ctx)

	if c.loader == nil {
		logger.Warn("No image loader configured, rendering flyer without background")
		return nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, c.imageTimeout)
	defer cancel()

	type result struct {
		img image.Image
		err error
	}

	done := make(chan result, 1)
	go func() {
		img, err := c.loader.Load(loadCtx, url)
		done <- result{img, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			logger.Warn("Flyer background failed to load", slog.String("url", url), slog.String("error", r.err.Error()))
			return nil
		}
		return r.img
	case <-loadCtx.Done():
		logger.Warn("Flyer background load timed out", slog.String("url", url))
		return nil
	}
}

func (c *Compositor) layers(req models.FlyerRequest, f *faces) []layer {
	out := []layer{
		{text: strings.ToUpper(req.Title), face: f.title, color: white, glow: violet, glowBlur: 40, baseline: 300},
		{text: strings.ToUpper(req.Subtitle), face: f.subtitle, color: white, glow: violet, glowBlur: 20, baseline: 380},
	}

	for i, artist := range req.Lineup {
		out = append(out, layer{text: strings.ToUpper(artist), face: f.lineup, color: white, glow: blue, glowBlur: 30, baseline: 600 + i*100})
	}

	footer := fmt.Sprintf("%s • %s • %s", req.Date, req.Venue, req.City)
	out = append(out,
		layer{text: strings.ToUpper(footer), face: f.footer, color: white, baseline: 1200},
		layer{text: c.brand, face: f.brand, color: violet, baseline: Height - 50},
	)

	return out
}

func fillGradient(dst *image.NRGBA, from, to color.NRGBA) {
	b := dst.Bounds()
	span := float64(b.Dy() - 1)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / span
		row := color.NRGBA{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: 0xff,
		}

		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetNRGBA(x, y, row)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// drawCover scales src to cover dst, centred, and draws it at the given opacity.
func drawCover(dst *image.NRGBA, src image.Image, opacity float64) {
	filled := imaging.Fill(src, dst.Bounds().Dx(), dst.Bounds().Dy(), imaging.Center, imaging.Lanczos)
	mask := image.NewUniform(color.Alpha{A: uint8(opacity * 255)})

	draw.DrawMask(dst, dst.Bounds(), filled, image.Point{}, mask, image.Point{}, draw.Over)
}

func drawLayer(dst *image.NRGBA, l layer) {
	if strings.TrimSpace(l.text) == "" {
		return
	}

	if l.glow != nil && l.glowBlur > 0 {
		// canvas shadowBlur is roughly twice the gaussian sigma
		sigma := l.glowBlur / 2
		pad := int(3*sigma) + 1
		m := l.face.Metrics()

		top := l.baseline - m.Ascent.Ceil() - pad
		band := image.NewNRGBA(image.Rect(0, 0, dst.Bounds().Dx(), m.Ascent.Ceil()+m.Descent.Ceil()+2*pad))
		drawText(band, l.text, l.face, l.glow, l.baseline-top)

		blurred := imaging.Blur(band, sigma)
		target := image.Rect(0, top, dst.Bounds().Dx(), top+band.Bounds().Dy())
		draw.Draw(dst, target, blurred, image.Point{}, draw.Over)
	}

	drawText(dst, l.text, l.face, l.color, l.baseline)
}

func drawText(dst draw.Image, text string, face font.Face, c color.Color, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}

	width := d.MeasureString(text).Round()
	d.Dot = fixed.P((dst.Bounds().Dx()-width)/2, baseline)
	d.DrawString(text)
}

type faces struct {
	title    font.Face
	subtitle font.Face
	lineup   font.Face
	footer   font.Face
	brand    font.Face
}

var (
	fontsOnce sync.Once
	boldFont  *opentype.Font
	regFont   *opentype.Font
	fontsErr  error
)

// loadFaces builds a fresh set of faces; font.Face is not safe for concurrent use.
func loadFaces() (*faces, error) {
	fontsOnce.Do(func() {
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
		if fontsErr != nil {
			return
		}
		regFont, fontsErr = opentype.Parse(goregular.TTF)
	})

	if fontsErr != nil {
		return nil, fmt.Errorf("parsing fonts: %w", fontsErr)
	}

	f := &faces{}
	for _, fs := range []struct {
		dst  *font.Face
		font *opentype.Font
		size float64
	}{
		{&f.title, boldFont, 120},
		{&f.subtitle, regFont, 40},
		{&f.lineup, boldFont, 60},
		{&f.footer, boldFont, 40},
		{&f.brand, boldFont, 30},
	} {
		ff, err := opentype.NewFace(fs.font, &opentype.FaceOptions{Size: fs.size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return nil, fmt.Errorf("building font face: %w", err)
		}
		*fs.dst = ff
	}

	return f, nil
}
