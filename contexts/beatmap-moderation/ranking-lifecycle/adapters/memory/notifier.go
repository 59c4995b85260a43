package memory

import (
	"context"
	"sync"

	"nominator/contexts/beatmap-moderation/ranking-lifecycle/ports"
)

// Recorder captures announcements for assertions. FailWith makes every
// subsequent Send return the given error, which callers must swallow.
type Recorder struct {
	mu   sync.Mutex
	sent []ports.Notification
	fail error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(_ context.Context, notification ports.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, notification)
	return nil
}

func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *Recorder) Sent() []ports.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.Notification(nil), r.sent...)
}
