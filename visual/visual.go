// Package visual renders layout detection results as overlay images for
// debugging: detected strips and bands as shaded areas, segment boundaries as
// lines, and paragraph bounding boxes with their reading-order index.
package visual

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pagelab/reflow/layout"
	"github.com/pagelab/reflow/model"
)

// Options controls overlay rendering.
type Options struct {
	// Scale is the pixels-per-layout-unit factor
	// Default: 1
	Scale float64

	// Background fills the page canvas
	Background color.Color

	// FragmentColor fills fragment rectangles
	FragmentColor color.Color

	// ParagraphColor outlines paragraph bounding boxes
	ParagraphColor color.Color

	// StripColor shades detected vertical strips
	StripColor color.Color

	// BandColor shades detected horizontal bands
	BandColor color.Color

	// SegmentColor draws segment boundary lines
	SegmentColor color.Color

	// Labels draws the reading-order index next to each paragraph box
	Labels bool
}

// DefaultOptions returns the default rendering options
func DefaultOptions() Options {
	return Options{
		Scale:          1,
		Background:     color.White,
		FragmentColor:  color.NRGBA{R: 220, G: 220, B: 220, A: 255},
		ParagraphColor: color.NRGBA{R: 30, G: 100, B: 220, A: 255},
		StripColor:     color.NRGBA{R: 255, G: 200, B: 120, A: 255},
		BandColor:      color.NRGBA{R: 150, G: 220, B: 150, A: 255},
		SegmentColor:   color.NRGBA{R: 200, G: 80, B: 80, A: 255},
		Labels:         true,
	}
}

// Render draws the detection result onto a fresh page canvas. A nil result or
// an empty page yields a 1x1 image rather than failing.
func Render(result *layout.Result, opts Options) *image.NRGBA {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if result == nil || result.Page.IsEmpty() {
		return imaging.New(1, 1, opts.Background)
	}

	w := int(math.Ceil(result.Page.Width() * opts.Scale))
	h := int(math.Ceil(result.Page.Height() * opts.Scale))
	img := imaging.New(w, h, opts.Background)

	project := func(r model.Rect) image.Rectangle {
		return image.Rect(
			int((r.Left-result.Page.Left)*opts.Scale),
			int((r.Top-result.Page.Top)*opts.Scale),
			int((r.Right-result.Page.Left)*opts.Scale),
			int((r.Bottom-result.Page.Top)*opts.Scale),
		)
	}

	for _, s := range result.Strips {
		fillRect(img, project(model.NewRect(s.Left, s.Top, s.Right, s.Bottom)), opts.StripColor)
	}
	for _, b := range result.Bands {
		fillRect(img, project(model.NewRect(result.Page.Left, b.Top(), result.Page.Right, b.Bottom())), opts.BandColor)
	}
	for _, seg := range result.Segments {
		y := int((seg.Top - result.Page.Top) * opts.Scale)
		drawHLine(img, y, opts.SegmentColor)
	}

	for _, p := range result.Paragraphs {
		for _, f := range p.Fragments {
			fillRect(img, project(f.Rect), opts.FragmentColor)
		}
	}
	for i, p := range result.Paragraphs {
		box := project(p.Rect())
		drawRect(img, box, opts.ParagraphColor, 2)
		if opts.Labels {
			drawLabel(img, box.Min.X+3, box.Min.Y+12, fmt.Sprintf("%d", i), opts.ParagraphColor)
		}
	}

	return img
}

// EncodePNG writes the overlay as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("encoding overlay: %w", err)
	}
	return nil
}

// SavePNG writes the overlay to a file; the extension selects the format.
func SavePNG(filename string, img image.Image) error {
	if err := imaging.Save(img, filename); err != nil {
		return fmt.Errorf("saving overlay: %w", err)
	}
	return nil
}

// fillRect fills the rectangle, clipped to the image bounds.
func fillRect(img *image.NRGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// drawRect outlines the rectangle with the given edge thickness.
func drawRect(img *image.NRGBA, r image.Rectangle, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), c)
	fillRect(img, image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), c)
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), c)
	fillRect(img, image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// drawHLine draws a one-pixel horizontal line across the image.
func drawHLine(img *image.NRGBA, y int, c color.Color) {
	b := img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		img.Set(x, y, c)
	}
}

// drawLabel draws short text at the given baseline position.
func drawLabel(img *image.NRGBA, x, y int, text string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
