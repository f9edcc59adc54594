// Package render turns an art tree into a square raster.
//
// Pixel (px, py) is colored by evaluating the tree at (2·px/size − 1, 2·py/size − 1), so the
// top-left corner of every pixel is sampled. Rows are independent and rendered concurrently;
// the tree is only read.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"runtime"

	"github.com/aretw0/randomart/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Evaluator is anything that maps a coordinate to a color. *art.Node satisfies it.
type Evaluator interface {
	Eval(x, y float64) domain.Color
}

type options struct {
	workers int
}

// Option configures Render.
type Option func(*options)

// WithWorkers bounds the number of rows rendered at once. Values below 1 mean one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Coord maps a pixel index to the [-1, 1) evaluation space.
func Coord(p, size int) float64 {
	return 2*float64(p)/float64(size) - 1
}

// Render evaluates tree once per pixel of a size×size raster.
// The output is identical whatever the number of workers.
func Render(ctx context.Context, tree Evaluator, size int, opts ...Option) (*image.NRGBA, error) {
	if err := domain.ValidateSize(size); err != nil {
		return nil, err
	}
	o := options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for py := 0; py < size; py++ {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			renderRow(img, tree, py, size)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render canceled: %w", err)
	}
	return img, nil
}

func renderRow(img *image.NRGBA, tree Evaluator, py, size int) {
	y := Coord(py, size)
	row := img.Pix[py*img.Stride : py*img.Stride+4*size]
	for px := 0; px < size; px++ {
		r, g, b := tree.Eval(Coord(px, size), y).RGB()
		i := 4 * px
		row[i], row[i+1], row[i+2], row[i+3] = r, g, b, 0xff
	}
}

// At returns the normalized color of a single pixel without rendering the raster.
func At(tree Evaluator, px, py, size int) color.NRGBA {
	r, g, b := tree.Eval(Coord(px, size), Coord(py, size)).RGB()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
