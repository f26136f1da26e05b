package analytics

import "context"

// MemoryQueue is an EventQueue backed by an in-memory buffered channel.
// When the buffer is full the oldest record is dropped rather than blocking
// the interaction that produced the event.
type MemoryQueue struct {
	ch chan string
}

// NewMemoryQueue creates a MemoryQueue with the provided buffer capacity.
func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer <= 0 {
		buffer = 256
	}
	return &MemoryQueue{
		ch: make(chan string, buffer),
	}
}

// Push enqueues a record, evicting the oldest entry if the buffer is full.
func (q *MemoryQueue) Push(ctx context.Context, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for {
		select {
		case q.ch <- body:
			return nil
		default:
			select {
			case <-q.ch:
			default:
			}
		}
	}
}

// Drain returns all buffered records without blocking.
func (q *MemoryQueue) Drain() []string {
	var out []string
	for {
		select {
		case body := <-q.ch:
			out = append(out, body)
		default:
			return out
		}
	}
}
