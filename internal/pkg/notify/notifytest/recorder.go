// Package notifytest provides a notify.Publisher for tests.
package notifytest

import (
	"context"
	"sync"

	"github.com/yigit/eventsphere/internal/pkg/notify"
)

// Recorder keeps published notifications in memory
type Recorder struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *Recorder) Publish(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Sent returns a copy of everything published so far
func (r *Recorder) Sent() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.sent...)
}

// Kinds returns the kinds published so far, in order
func (r *Recorder) Kinds() []notify.Kind {
	sent := r.Sent()
	kinds := make([]notify.Kind, len(sent))
	for i, n := range sent {
		kinds[i] = n.Kind
	}
	return kinds
}
