package systems

import (
	"runtime"
	"sync"
)

// workChunk is a half-open index range handed to one worker.
type workChunk struct {
	start, end int
}

// workerPool fans index ranges out over persistent goroutines.
// Each range is owned by exactly one worker, so work functions may write
// per-index outputs without locking.
type workerPool struct {
	numWorkers int
	fn         func(start, end, worker int)

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// newWorkerPool creates a pool with n workers (0 = GOMAXPROCS).
func newWorkerPool(n int) *workerPool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &workerPool{numWorkers: n}
}

// start launches the worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.fn(chunk.start, chunk.end, id)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits [0, n) into one chunk per worker, calls fn on each and blocks
// until every chunk is done.
func (p *workerPool) run(n int, fn func(start, end, worker int)) {
	if !p.running {
		p.start()
	}
	p.fn = fn

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
