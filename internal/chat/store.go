package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const sessionKeyPrefix = "chat:session:"

// SessionStore keeps one ordered message list per session in Redis. RPUSH
// makes the list order the commit order, so racing appends for one session
// still replay in the order they landed. Messages are never mutated or
// removed.
type SessionStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	now    func() time.Time
}

func NewSessionStore(client *redis.Client) *SessionStore {
	if client == nil {
		panic("chat: redis client cannot be nil")
	}
	return &SessionStore{
		redis:  client,
		tracer: otel.Tracer("portal.internal.chat.sessions"),
		now:    time.Now,
	}
}

// Append assigns the message id and timestamp and pushes it onto the end of
// the session list.
func (s *SessionStore) Append(ctx context.Context, sessionID string, msg Message) (Message, error) {
	if sessionID == "" {
		return Message{}, errors.New("chat: session id required")
	}

	ctx, span := s.tracer.Start(ctx, "chat.session.append")
	defer span.End()

	id, err := s.redis.Incr(ctx, sessionSeqKey(sessionID)).Result()
	if err != nil {
		span.RecordError(err)
		return Message{}, fmt.Errorf("chat: assign message id: %w", err)
	}
	msg.ID = id
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return Message{}, fmt.Errorf("chat: marshal message: %w", err)
	}

	if err := s.redis.RPush(ctx, sessionKey(sessionID), data).Err(); err != nil {
		span.RecordError(err)
		return Message{}, fmt.Errorf("chat: append message: %w", err)
	}

	return msg, nil
}

// History replays the full session, oldest first. A session that has never
// chatted is an empty slice, not an error.
func (s *SessionStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	if sessionID == "" {
		return nil, errors.New("chat: session id required")
	}

	ctx, span := s.tracer.Start(ctx, "chat.session.history")
	defer span.End()

	raw, err := s.redis.LRange(ctx, sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chat: load history: %w", err)
	}

	msgs := make([]Message, 0, len(raw))
	for _, item := range raw {
		var m Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("chat: decode message: %w", err)
		}
		msgs = append(msgs, m)
	}

	return msgs, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func sessionSeqKey(id string) string {
	return sessionKeyPrefix + id + ":seq"
}
