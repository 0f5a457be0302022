package verify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/AwesomeSam9523/muj-bot/internal/models"
)

// Action is a moderator's choice on an approval card.
type Action int

const (
	ActionApprove Action = iota
	ActionDecline
)

// Decision is the typed command dispatched when a moderator clicks an
// approval-card button. Card locates the posted message so it can be
// cleaned up; it is zero for cards rehydrated without a known message.
type Decision struct {
	Action         Action
	VerificationID string
	Card           CardRef
}

const (
	noticeAccepted = "✅ Your verification request has been accepted. Welcome to the server!"
	noticeDeclined = "❌ Your verification request has been declined. Please try again after getting in touch with our moderators."
)

// Decider applies moderator decisions: the terminal state transition plus
// its side effects. The persisted transition always happens first; when
// it fails nothing user-visible proceeds.
type Decider struct {
	store Store
	chat  Chat
	cards *CardRegistry

	// CleanupDelay is how long the card message stays visible after a
	// decision before it is removed from the moderation channel.
	CleanupDelay time.Duration

	now func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDecider(store Store, chat Chat, cards *CardRegistry, cleanupDelay time.Duration) *Decider {
	return &Decider{
		store:        store,
		chat:         chat,
		cards:        cards,
		CleanupDelay: cleanupDelay,
		now:          time.Now,
		locks:        make(map[string]*sync.Mutex),
	}
}

// Handle processes one decision and returns the confirmation text for the
// acting moderator. Decisions for the same record are serialized on a
// per-id lock; whichever loses the race gets ErrAlreadyDecided (or
// ErrUnknownCard once the card is unregistered) from the store layer.
func (d *Decider) Handle(ctx context.Context, dec Decision, modID string) (string, error) {
	lock := d.lockFor(dec.VerificationID)
	lock.Lock()
	defer lock.Unlock()

	card, ok := d.cards.Lookup(dec.VerificationID)
	if !ok {
		return "", ErrUnknownCard
	}

	member, err := d.chat.IsMember(ctx, card.RequesterID)
	if err != nil {
		return "", fmt.Errorf("resolve member %s: %w", card.RequesterID, err)
	}
	if !member {
		// Record stays pending; an operator has to resolve it manually.
		return "", ErrMemberGone
	}

	outcome := models.StatusDeclined
	if dec.Action == ActionApprove {
		outcome = models.StatusAccepted
	}

	if err := d.store.DecideVerification(dec.VerificationID, modID, outcome, d.now().UTC()); err != nil {
		return "", fmt.Errorf("persist decision: %w", err)
	}
	d.cards.Remove(dec.VerificationID)
	log.Printf("verification %s %s by moderator %s", dec.VerificationID, outcome, modID)

	if dec.Action == ActionApprove {
		if err := d.chat.SendDM(ctx, card.RequesterID, noticeAccepted); err != nil {
			log.Printf("notify %s: %v", card.RequesterID, err)
		}
		if err := d.chat.GrantMembership(ctx, card.RequesterID); err != nil {
			log.Printf("grant role to %s: %v", card.RequesterID, err)
		}
	} else {
		if err := d.chat.SendDM(ctx, card.RequesterID, noticeDeclined); err != nil {
			log.Printf("notify %s: %v", card.RequesterID, err)
		}
	}

	if dec.Card.MessageID != "" {
		d.scheduleCleanup(dec.Card)
	}

	verb := "Declined"
	if dec.Action == ActionApprove {
		verb = "Accepted"
	}
	return fmt.Sprintf("%s <@%s> (`%s`). The embed will be auto-deleted in %d seconds.",
		verb, card.RequesterID, card.RequesterID, int(d.CleanupDelay.Seconds())), nil
}

// scheduleCleanup removes the card message after the configured delay so
// the moderation channel does not fill up with settled cards.
func (d *Decider) scheduleCleanup(ref CardRef) {
	time.AfterFunc(d.CleanupDelay, func() {
		if err := d.chat.DeleteMessage(context.Background(), ref); err != nil {
			log.Printf("delete card message %s: %v", ref.MessageID, err)
		}
	})
}

func (d *Decider) lockFor(id string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l, ok := d.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	d.locks[id] = l
	return l
}
