package runner

import "sync"

// HijackQueue holds game ids waiting to be adopted by a worker. FIFO under
// a single mutex; each id is handed to exactly one worker.
type HijackQueue struct {
	mu  sync.Mutex
	ids []string
}

// Push enqueues a game id for adoption.
func (q *HijackQueue) Push(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
}

// Pop dequeues the oldest pending id, if any.
func (q *HijackQueue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ids) == 0 {
		return "", false
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id, true
}

// Len reports how many ids are still waiting.
func (q *HijackQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ids)
}
