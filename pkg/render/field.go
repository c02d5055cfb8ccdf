package render

import (
	"context"
	"runtime"

	"github.com/taigrr/vib4d/pkg/lattice"
	"github.com/taigrr/vib4d/pkg/shader"
	"github.com/taigrr/vib4d/pkg/system"
	"golang.org/x/sync/errgroup"
)

// FieldRenderer evaluates a visual system's fragment formula on the CPU,
// one horizontal band of rows per task.
type FieldRenderer struct {
	System system.System
	// Workers bounds concurrent bands. Zero means GOMAXPROCS.
	Workers int
	// BandHeight is the rows per task. Zero means 8.
	BandHeight int
}

// NewFieldRenderer renders sys with default concurrency.
func NewFieldRenderer(sys system.System) *FieldRenderer {
	return &FieldRenderer{System: sys}
}

// Render fills fb. The resolution uniform is the framebuffer size and
// fragment coordinates are pixel centres with y up, as on a GPU.
func (r *FieldRenderer) Render(ctx context.Context, fb *Framebuffer, b shader.Bindings) error {
	b.Resolution = [2]float64{float64(fb.Width), float64(fb.Height)}
	c := b.Field.Compile()

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	band := r.BandHeight
	if band <= 0 {
		band = 8
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < fb.Height; y0 += band {
		y1 := min(y0+band, fb.Height)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for y := y0; y < y1; y++ {
				fy := float64(fb.Height-y) - 0.5
				row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
				for x := range row {
					col := r.System.ShadeNative(c, b, [2]float64{float64(x) + 0.5, fy})
					row[x] = lattice.RGBA(col)
				}
			}
			return nil
		})
	}
	return g.Wait()
}
