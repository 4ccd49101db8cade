package renderer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// maxBands bounds the tasks queued per draw so a single render never fills the pool queue.
const maxBands = 64

// softwareRendererBackendImpl rasterizes on the CPU, splitting the target into horizontal
// bands executed on a persistent worker pool.
type softwareRendererBackendImpl struct {
	pool    worker.DynamicWorkerPool
	workers int
}

var _ RendererBackend = &softwareRendererBackendImpl{}

// newSoftwareRendererBackend creates the CPU backend with the given number of band workers.
func newSoftwareRendererBackend(workers int) *softwareRendererBackendImpl {
	workers = max(workers, 1)
	return &softwareRendererBackendImpl{
		pool:    worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers: workers,
	}
}

func (b *softwareRendererBackendImpl) Type() RendererBackendType {
	return BackendTypeSoftware
}

func (b *softwareRendererBackendImpl) Draw(target *RenderTarget, calls []DrawCall) error {
	if target == nil || target.Released() {
		return ErrTargetReleased
	}
	states, tris := setupTriangles(calls, target.width, target.height)
	if len(tris) == 0 {
		return nil
	}

	bands := min(target.height, b.workers*4, maxBands)
	rows := (target.height + bands - 1) / bands
	errs := make([]error, bands)

	// A WaitGroup provides the barrier; pool.Wait() blocks until workers idle-exit.
	var wg sync.WaitGroup
	for i := range bands {
		y0 := i * rows
		y1 := min(y0+rows, target.height)
		if y0 >= y1 {
			break
		}
		wg.Add(1)
		b.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (result any, err error) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						errs[i] = fmt.Errorf("raster band %d: %v", i, r)
					}
				}()
				rasterizeBand(target, states, tris, y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (b *softwareRendererBackendImpl) Close() {
	b.pool.Stop()
}
