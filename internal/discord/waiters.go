package discord

import (
	"sync"

	"github.com/AwesomeSam9523/muj-bot/internal/verify"
)

// dmWaiters routes inbound direct messages to whichever flow is waiting
// on that author. At most one waiter per user; registering again replaces
// the previous channel.
type dmWaiters struct {
	mu     sync.Mutex
	byUser map[string]chan *verify.Message
}

func newDMWaiters() *dmWaiters {
	return &dmWaiters{byUser: make(map[string]chan *verify.Message)}
}

// register returns the receive channel and a cancel func that must be
// called once the wait is over.
func (w *dmWaiters) register(userID string) (<-chan *verify.Message, func()) {
	ch := make(chan *verify.Message, 1)
	w.mu.Lock()
	w.byUser[userID] = ch
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		if w.byUser[userID] == ch {
			delete(w.byUser, userID)
		}
		w.mu.Unlock()
	}
	return ch, cancel
}

// dispatch hands the message to the author's waiter, if any. Only the
// first message is delivered; later ones are dropped, matching the
// single-shot wait.
func (w *dmWaiters) dispatch(msg *verify.Message) bool {
	w.mu.Lock()
	ch, ok := w.byUser[msg.AuthorID]
	w.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- msg:
		return true
	default:
		return false
	}
}
