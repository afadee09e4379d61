package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	ErrUnknownSource = errors.New("unknown chat source")
	ErrResponder     = errors.New("chat responder failed")
)

// ApologyBody is appended as the assistant reply when a responder fails, so a
// user turn is never left unanswered.
const ApologyBody = "Sorry, there was an error processing your request. Please try again."

// Router dispatches one chat turn to exactly one responder. The source is a
// caller-supplied parameter on every call; there is no session-level default
// and no cross-source fallback, since a silent fallback would break the
// source attribution shown to the user.
type Router struct {
	store      *SessionStore
	responders map[string]Responder
	timeout    time.Duration
	logger     *slog.Logger
}

func NewRouter(store *SessionStore, responders map[string]Responder, timeout time.Duration, logger *slog.Logger) *Router {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		store:      store,
		responders: responders,
		timeout:    timeout,
		logger:     logger,
	}
}

// Ask appends the user message, invokes the selected responder under a
// bounded wait, and appends the reply. On responder failure the session gets
// the fixed apology with no source tag and the underlying cause is reported
// wrapped in ErrResponder.
func (r *Router) Ask(ctx context.Context, sessionID, text, source string) (Message, error) {
	responder, ok := r.responders[source]
	if !ok {
		return Message{}, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}

	history, err := r.store.History(ctx, sessionID)
	if err != nil {
		return Message{}, err
	}

	if _, err := r.store.Append(ctx, sessionID, Message{Body: text, Sender: SenderUser}); err != nil {
		return Message{}, err
	}

	replyCtx, cancel := context.WithTimeout(ctx, r.timeout)
	reply, replyErr := responder.Reply(replyCtx, history, text)
	cancel()

	if replyErr != nil {
		r.logger.Warn("chat responder failed",
			"source", source,
			"session_id", sessionID,
			"error", replyErr.Error(),
		)

		// The apology must land even if the caller's context just expired.
		msg, appendErr := r.store.Append(context.WithoutCancel(ctx), sessionID, Message{
			Body:   ApologyBody,
			Sender: SenderAssistant,
		})
		if appendErr != nil {
			return Message{}, fmt.Errorf("append apology after responder failure: %w", appendErr)
		}
		return msg, fmt.Errorf("%s responder: %w", source, errors.Join(ErrResponder, replyErr))
	}

	msg, err := r.store.Append(ctx, sessionID, Message{
		Body:   reply,
		Sender: SenderAssistant,
		Source: source,
	})
	if err != nil {
		return Message{}, err
	}

	return msg, nil
}

// History replays the session, oldest first.
func (r *Router) History(ctx context.Context, sessionID string) ([]Message, error) {
	return r.store.History(ctx, sessionID)
}
