package verify

import "sync"

// CardRegistry holds the approval cards that are currently actionable,
// keyed by verification id. A decision for an id that is not registered
// is refused.
type CardRegistry struct {
	mu    sync.Mutex
	cards map[string]Card
}

func NewCardRegistry() *CardRegistry {
	return &CardRegistry{cards: make(map[string]Card)}
}

func (r *CardRegistry) Register(c Card) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[c.VerificationID] = c
}

func (r *CardRegistry) Lookup(id string) (Card, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cards[id]
	return c, ok
}

func (r *CardRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cards, id)
}

func (r *CardRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards)
}

// Rehydrate re-registers a card for every record that was still pending
// when the process last stopped, so moderator buttons keep working across
// restarts. Returns how many cards were restored.
func (r *CardRegistry) Rehydrate(store Store) (int, error) {
	pending, err := store.ListPendingVerifications()
	if err != nil {
		return 0, err
	}
	for _, v := range pending {
		r.Register(Card{
			VerificationID: v.ID,
			RequesterID:    v.UserID,
			ImageURL:       v.ImageURL,
		})
	}
	return len(pending), nil
}
