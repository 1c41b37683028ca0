package router

import (
	"sync"

	"github.com/leandrodaf/midi-router/sdk/contracts"
)

// Queue is the bounded single-consumer/multi-producer ring buffer of
// spec.md §3/§5: producers enqueue concurrently via Push (non-blocking,
// returns QueueFull at capacity); the dispatcher goroutine alone calls
// Pop. A mutex guards the ring; spec.md explicitly permits "a minimally
// locked queue... as long as producers never wait on each other for more
// than a fixed bound", and a short critical section over a fixed-size
// array satisfies that.
type Queue struct {
	mu     sync.Mutex
	buf    []contracts.Packet
	head   int
	count  int
	notify chan struct{}
}

// NewQueue constructs a Queue with the given capacity (spec.md's default
// is 64, via Config.DrainBudget).
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	return &Queue{buf: make([]contracts.Packet, capacity), notify: make(chan struct{}, 1)}
}

// Push enqueues p. It never blocks: at capacity it returns QueueFull and
// drops p, leaving the caller to bump a dropped-packet counter.
func (q *Queue) Push(p contracts.Packet) error {
	q.mu.Lock()
	if q.count == len(q.buf) {
		q.mu.Unlock()
		return contracts.NewError("Push", contracts.QueueFull, nil)
	}
	tail := (q.head + q.count) % len(q.buf)
	q.buf[tail] = p
	q.count++
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// NotifyChan returns the channel the dispatcher waits on when idle; a
// receive indicates the queue was non-empty at some point after the wait
// began (spec.md §5: "the dispatcher suspends on dequeue when idle").
func (q *Queue) NotifyChan() <-chan struct{} {
	return q.notify
}

// Pop dequeues the oldest packet. ok is false when the queue is empty.
func (q *Queue) Pop() (contracts.Packet, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return contracts.Packet{}, false
	}
	p := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return p, true
}

// Len reports the current queue depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}
