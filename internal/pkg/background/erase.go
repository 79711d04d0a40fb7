package background

import (
	"context"
	"image"
	"image/color"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Transparent is written over every pixel classified as background.
var Transparent = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// Erase returns a copy of img with every background pixel replaced by
// Transparent, and the number of pixels replaced. Other pixels keep their
// NRGBA value. img is not modified. The result starts at the origin and has
// the same size as img.
//
// Rows are split into bands erased concurrently. Each band checks ctx between
// rows, so a cancelled ctx aborts the erase and its error is returned.
func Erase(ctx context.Context, img image.Image, rule Rule) (*image.NRGBA, int, error) {
	dst := imaging.Clone(img)

	height := dst.Bounds().Dy()
	if height == 0 {
		return dst, 0, nil
	}

	bands := runtime.GOMAXPROCS(0)
	if bands > height {
		bands = height
	}
	counts := make([]int, bands)
	rowsPerBand := (height + bands - 1) / bands

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < bands; i++ {
		start := i * rowsPerBand
		end := min(start+rowsPerBand, height)
		if start >= end {
			continue
		}
		g.Go(func() error {
			n, err := eraseRows(gctx, dst, start, end, rule)
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	erased := 0
	for _, c := range counts {
		erased += c
	}
	return dst, erased, nil
}

func eraseRows(ctx context.Context, img *image.NRGBA, start, end int, rule Rule) (int, error) {
	width := img.Bounds().Dx()
	erased := 0
	for y := start; y < end; y++ {
		if err := ctx.Err(); err != nil {
			return erased, err
		}
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for i := 0; i < len(row); i += 4 {
			if !rule.IsBackground(row[i], row[i+1], row[i+2]) {
				continue
			}
			row[i] = Transparent.R
			row[i+1] = Transparent.G
			row[i+2] = Transparent.B
			row[i+3] = Transparent.A
			erased++
		}
	}
	return erased, nil
}
