package loader

import (
	"sync/atomic"

	"github.com/delp/framesheet/internal/progress"
)

type countingReporter struct {
	steps atomic.Int32
	max   atomic.Int32
}

func (r *countingReporter) Start(progress.Phase, int) {}

func (r *countingReporter) Step(_ progress.Phase, done, _ int) {
	r.steps.Add(1)
	for {
		m := r.max.Load()
		if int32(done) <= m || r.max.CompareAndSwap(m, int32(done)) {
			return
		}
	}
}

func (r *countingReporter) Finish(progress.Phase) {}
