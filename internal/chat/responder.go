package chat

import (
	"context"
	"errors"
)

// Responder maps a user turn to reply text for one chat source.
// Implementations are black boxes; the router owns timeouts, failure handling
// and source attribution.
type Responder interface {
	Reply(ctx context.Context, history []Message, text string) (string, error)
}

type unavailableResponder struct {
	reason string
}

// Unavailable returns a responder that always fails with the given reason.
// Used when a source is registered but not configured, so callers get a
// downstream error instead of a missing source.
func Unavailable(reason string) Responder {
	return unavailableResponder{reason: reason}
}

func (r unavailableResponder) Reply(context.Context, []Message, string) (string, error) {
	return "", errors.New(r.reason)
}
