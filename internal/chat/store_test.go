package chat

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewSessionStore(client)
	store.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	return store
}

func TestAppendAssignsSequentialIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		msg, err := store.Append(ctx, "alice@example.com", Message{Body: "hi", Sender: SenderUser})
		require.NoError(t, err)
		require.Equal(t, want, msg.ID)
		require.False(t, msg.Timestamp.IsZero())
	}
}

func TestHistoryReplaysInAppendOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, "alice@example.com", Message{Body: "What is a fever?", Sender: SenderUser})
	require.NoError(t, err)
	_, err = store.Append(ctx, "alice@example.com", Message{Body: "An elevated body temperature.", Sender: SenderAssistant, Source: SourceMedicalBot})
	require.NoError(t, err)

	history, err := store.History(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, history, 2)

	require.Equal(t, int64(1), history[0].ID)
	require.Equal(t, SenderUser, history[0].Sender)
	require.Equal(t, "What is a fever?", history[0].Body)
	require.Empty(t, history[0].Source)

	require.Equal(t, int64(2), history[1].ID)
	require.Equal(t, SourceMedicalBot, history[1].Source)
}

func TestHistoryEmptyForUnknownSession(t *testing.T) {
	store := newTestStore(t)

	history, err := store.History(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	require.NotNil(t, history)
	require.Empty(t, history)
}

func TestSessionsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Append(ctx, "alice@example.com", Message{Body: "alice says", Sender: SenderUser})
	require.NoError(t, err)
	_, err = store.Append(ctx, "bob@example.com", Message{Body: "bob says", Sender: SenderUser})
	require.NoError(t, err)

	alice, err := store.History(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, alice, 1)
	require.Equal(t, "alice says", alice[0].Body)

	bob, err := store.History(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Len(t, bob, 1)
	require.Equal(t, "bob says", bob[0].Body)
}

func TestAppendRequiresSessionID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Append(context.Background(), "", Message{Body: "hi", Sender: SenderUser})
	require.Error(t, err)
}
