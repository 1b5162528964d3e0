package notifier

import (
	"context"
	"log/slog"
	"sync"
)

// Notifier delivers a one-shot user-facing message describing an
// operation's outcome. Calls are synchronous and fire-and-forget; no
// delivery guarantee is implied and callers never act on the result.
type Notifier interface {
	Notify(ctx context.Context, title, body string, severe bool)
}

// SlogNotifier writes notifications to the application log. It stands in
// for the UI toast layer, which is outside this service.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger.With("component", "notifier")}
}

func (n *SlogNotifier) Notify(ctx context.Context, title, body string, severe bool) {
	if severe {
		n.logger.WarnContext(ctx, "user notification", "title", title, "body", body)
		return
	}
	n.logger.InfoContext(ctx, "user notification", "title", title, "body", body)
}

// Notification is one recorded message, kept by Recorder for assertions.
type Notification struct {
	Title  string
	Body   string
	Severe bool
}

// Recorder captures notifications in order. Test double.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(_ context.Context, title, body string, severe bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{Title: title, Body: body, Severe: severe})
}

// All returns a copy of everything recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Last returns the most recent notification, or a zero value when none
// was recorded.
func (r *Recorder) Last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return Notification{}
	}
	return r.sent[len(r.sent)-1]
}
