package domain

import (
	"context"
	"time"
)

// DocumentEvent describes the conversion of a single document.
type DocumentEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	RunID     string        `json:"run_id"`
	Name      string        `json:"name"`
	Outcome   Outcome       `json:"outcome"`
	Duration  time.Duration `json:"duration"`
	Bytes     int           `json:"bytes,omitempty"`
	Err       error         `json:"-"`
}

// ConversionHooks defines callbacks for batch observability.
type ConversionHooks struct {
	OnDocumentDone    func(context.Context, *DocumentEvent)
	OnDocumentSkipped func(context.Context, *DocumentEvent)
	OnDocumentFailed  func(context.Context, *DocumentEvent)
}

// Fire dispatches ev to the hook matching its outcome.
func (h ConversionHooks) Fire(ctx context.Context, ev *DocumentEvent) {
	var fn func(context.Context, *DocumentEvent)
	switch ev.Outcome {
	case OutcomeWritten:
		fn = h.OnDocumentDone
	case OutcomeSkipped:
		fn = h.OnDocumentSkipped
	case OutcomeFailed:
		fn = h.OnDocumentFailed
	}
	if fn != nil {
		fn(ctx, ev)
	}
}
