package analytics

import "context"

// EventQueue is the downstream tag-management queue. Implementations deliver
// serialized event records; the tagger treats every queue as best-effort.
type EventQueue interface {
	Push(ctx context.Context, body string) error
}
