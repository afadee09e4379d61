package chat

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	reply   string
	err     error
	gotText string
	history []Message
}

func (s *stubResponder) Reply(_ context.Context, history []Message, text string) (string, error) {
	s.gotText = text
	s.history = history
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestRouter(t *testing.T, responders map[string]Responder) *Router {
	t.Helper()
	store := newTestStore(t)
	return NewRouter(store, responders, time.Second, slog.New(slog.NewTextHandler(testWriter{t}, nil)))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestAskAppendsUserAndTaggedReply(t *testing.T) {
	bot := &stubResponder{reply: "An elevated body temperature."}
	router := newTestRouter(t, map[string]Responder{SourceMedicalBot: bot})

	msg, err := router.Ask(context.Background(), "alice@example.com", "What is a fever?", SourceMedicalBot)
	require.NoError(t, err)
	require.Equal(t, "An elevated body temperature.", msg.Body)
	require.Equal(t, SenderAssistant, msg.Sender)
	require.Equal(t, SourceMedicalBot, msg.Source)
	require.Equal(t, "What is a fever?", bot.gotText)

	history, err := router.History(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, SenderUser, history[0].Sender)
	require.Equal(t, "What is a fever?", history[0].Body)
	require.Equal(t, SenderAssistant, history[1].Sender)
}

func TestAskPassesPriorHistoryToResponder(t *testing.T) {
	bot := &stubResponder{reply: "second answer"}
	router := newTestRouter(t, map[string]Responder{SourceMedicalBot: bot})

	_, err := router.Ask(context.Background(), "alice@example.com", "first question", SourceMedicalBot)
	require.NoError(t, err)

	_, err = router.Ask(context.Background(), "alice@example.com", "second question", SourceMedicalBot)
	require.NoError(t, err)

	// The responder sees the turns that existed before the current one.
	require.Len(t, bot.history, 2)
	require.Equal(t, "first question", bot.history[0].Body)
}

// A failed responder still answers the session: user turn, then the fixed
// apology with no source tag.
func TestAskRespondsWithApologyOnFailure(t *testing.T) {
	cause := errors.New("upstream timeout")
	bot := &stubResponder{err: cause}
	router := newTestRouter(t, map[string]Responder{SourceMedicalBot: bot})

	msg, err := router.Ask(context.Background(), "alice@example.com", "What is a fever?", SourceMedicalBot)
	require.ErrorIs(t, err, ErrResponder)
	require.ErrorIs(t, err, cause)
	require.Equal(t, ApologyBody, msg.Body)
	require.Equal(t, SenderAssistant, msg.Sender)
	require.Empty(t, msg.Source)

	history, err := router.History(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "What is a fever?", history[0].Body)
	require.Equal(t, ApologyBody, history[1].Body)
	require.Empty(t, history[1].Source)
}

// An unknown source fails fast: nothing is appended to the session.
func TestAskUnknownSourceLeavesSessionUntouched(t *testing.T) {
	router := newTestRouter(t, map[string]Responder{SourceMedicalBot: &stubResponder{reply: "hi"}})

	_, err := router.Ask(context.Background(), "alice@example.com", "hello", "oracle")
	require.ErrorIs(t, err, ErrUnknownSource)

	history, err := router.History(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestAskRoutesPerCallSource(t *testing.T) {
	medical := &stubResponder{reply: "from medical bot"}
	gemini := &stubResponder{reply: "from gemini"}
	router := newTestRouter(t, map[string]Responder{
		SourceMedicalBot: medical,
		SourceGemini:     gemini,
	})

	first, err := router.Ask(context.Background(), "alice@example.com", "q1", SourceMedicalBot)
	require.NoError(t, err)
	require.Equal(t, SourceMedicalBot, first.Source)

	second, err := router.Ask(context.Background(), "alice@example.com", "q2", SourceGemini)
	require.NoError(t, err)
	require.Equal(t, SourceGemini, second.Source)
	require.Equal(t, "from gemini", second.Body)

	require.Equal(t, "q1", medical.gotText)
	require.Equal(t, "q2", gemini.gotText)
}

func TestUnavailableResponderAlwaysFails(t *testing.T) {
	router := newTestRouter(t, map[string]Responder{SourceGemini: Unavailable("no api key configured")})

	msg, err := router.Ask(context.Background(), "alice@example.com", "hello", SourceGemini)
	require.ErrorIs(t, err, ErrResponder)
	require.Equal(t, ApologyBody, msg.Body)
}
