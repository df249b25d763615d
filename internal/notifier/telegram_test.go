package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	n.backoff = func(int) time.Duration { return time.Millisecond }
	return n
}

func TestSend_Payload(t *testing.T) {
	var got map[string]string
	var path string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
}

func TestSendWithRetry_RecoversAfterFailures(t *testing.T) {
	var calls atomic.Int32
	n := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, n.SendWithRetry(context.Background(), "msg", 3))
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	var calls atomic.Int32
	n := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	err := n.SendWithRetry(context.Background(), "msg", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 retries exhausted")
	assert.Equal(t, int32(3), calls.Load())
}

func TestPoll_DispatchesCommands(t *testing.T) {
	var sent []string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTOKEN/getUpdates":
			_, _ = w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /trend AAPL "}},
				{"update_id":8}
			]}`))
		case "/botTOKEN/sendMessage":
			var p map[string]string
			_ = json.NewDecoder(r.Body).Decode(&p)
			sent = append(sent, p["text"])
		}
	})

	var received []string
	next, err := n.poll(context.Background(), n.Client, 0, func(_ context.Context, cmd string) string {
		received = append(received, cmd)
		return "reply to " + cmd
	})
	require.NoError(t, err)
	assert.Equal(t, 9, next)
	assert.Equal(t, []string{"/trend AAPL"}, received)
	assert.Equal(t, []string{"reply to /trend AAPL"}, sent)
}
