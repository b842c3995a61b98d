package sim

import (
	"sync"

	"github.com/eapache/queue"
)

// workQueue hands out ray indices in input order to competing workers.
type workQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

func newWorkQueue(n int) *workQueue {
	q := queue.New()
	for i := 0; i < n; i++ {
		q.Add(i)
	}
	return &workQueue{q: q}
}

// next claims the next index. ok is false once the queue is drained.
func (w *workQueue) next() (idx int, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.q.Length() == 0 {
		return 0, false
	}
	return w.q.Remove().(int), true
}

func (w *workQueue) remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.q.Length()
}
