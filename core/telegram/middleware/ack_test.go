package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/m3rciful/coinbot/core/telegram/dispatch"

	tele "gopkg.in/telebot.v4"
)

type apiRecorder struct {
	mu      sync.Mutex
	methods []string
}

func (a *apiRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.methods = append(a.methods, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
	a.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
}

func (a *apiRecorder) count(method string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, m := range a.methods {
		if m == method {
			n++
		}
	}
	return n
}

func newCallbackContext(t *testing.T, apiURL string, chatID int64) tele.Context {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{Token: "123:abc", URL: apiURL, Offline: true, Synchronous: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	return bot.NewContext(tele.Update{
		ID: 1,
		Callback: &tele.Callback{
			ID:      "cb",
			Data:    "lang|en_us",
			Sender:  &tele.User{ID: chatID},
			Message: &tele.Message{ID: 5, Chat: &tele.Chat{ID: chatID, Type: tele.ChatPrivate}},
		},
	})
}

func TestAckCallbackNotHeldByBusyShard(t *testing.T) {
	api := &apiRecorder{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	exec := dispatch.New(dispatch.Options{Workers: 8})
	release := make(chan struct{})
	busy := make(chan struct{})
	if err := exec.Submit(context.Background(), 1, "slow", func(context.Context) error {
		close(busy)
		<-release
		return nil
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-busy

	ran := make(chan struct{})
	handler := AckCallback(Serial(exec)(func(tele.Context) error {
		close(ran)
		return nil
	}))

	// Chat 9 lands on the same shard as chat 1.
	if err := handler(newCallbackContext(t, srv.URL, 9)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := api.count("answerCallbackQuery"); got != 1 {
		t.Fatalf("answerCallbackQuery calls while shard busy = %d, want 1", got)
	}
	select {
	case <-ran:
		t.Fatal("handler ran before the busy job finished")
	default:
	}

	close(release)
	exec.Close()
	select {
	case <-ran:
	default:
		t.Fatal("handler did not run after release")
	}
}

func TestAckCallbackSkipsMessages(t *testing.T) {
	api := &apiRecorder{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	bot, err := tele.NewBot(tele.Settings{Token: "123:abc", URL: srv.URL, Offline: true, Synchronous: true})
	if err != nil {
		t.Fatalf("NewBot: %v", err)
	}
	c := bot.NewContext(tele.Update{ID: 2, Message: &tele.Message{ID: 1, Chat: &tele.Chat{ID: 3}, Text: "/menu"}})

	called := false
	if err := AckCallback(func(tele.Context) error { called = true; return nil })(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called || api.count("answerCallbackQuery") != 0 {
		t.Fatalf("called=%v acks=%d", called, api.count("answerCallbackQuery"))
	}
}
