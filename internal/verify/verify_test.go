package verify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AwesomeSam9523/muj-bot/internal/models"
)

// callLog records the order of chat and store calls so tests can assert
// that the persisted transition happens before user-visible side effects.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) index(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, c := range l.calls {
		if c == name {
			return i
		}
	}
	return -1
}

type fakeChat struct {
	log *callLog

	mu      sync.Mutex
	dms     map[string][]string
	dmErr   map[string]error
	granted []string
	deleted []CardRef
	cards   []Card

	awaitMsg  *Message
	awaitErr  error
	rehostURL string
	rehostErr error
	postErr   error
	grantErr  error
	members   map[string]bool

	deletedCh chan CardRef
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		dms:       make(map[string][]string),
		dmErr:     make(map[string]error),
		members:   make(map[string]bool),
		rehostURL: "https://cdn.example.com/stored.png",
		deletedCh: make(chan CardRef, 4),
	}
}

func (c *fakeChat) SendDM(_ context.Context, userID, content string) error {
	c.log.add("chat.senddm")
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.dmErr[userID]; err != nil {
		return err
	}
	c.dms[userID] = append(c.dms[userID], content)
	return nil
}

func (c *fakeChat) AwaitDM(_ context.Context, _ string, _ time.Duration) (*Message, error) {
	c.log.add("chat.awaitdm")
	if c.awaitErr != nil {
		return nil, c.awaitErr
	}
	return c.awaitMsg, nil
}

func (c *fakeChat) Rehost(_ context.Context, _ Attachment, _ string) (string, error) {
	c.log.add("chat.rehost")
	if c.rehostErr != nil {
		return "", c.rehostErr
	}
	return c.rehostURL, nil
}

func (c *fakeChat) PostCard(_ context.Context, card Card) (CardRef, error) {
	c.log.add("chat.postcard")
	if c.postErr != nil {
		return CardRef{}, c.postErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cards = append(c.cards, card)
	return CardRef{ChannelID: "mod-channel", MessageID: "card-msg"}, nil
}

func (c *fakeChat) DeleteMessage(_ context.Context, ref CardRef) error {
	c.log.add("chat.delete")
	c.mu.Lock()
	c.deleted = append(c.deleted, ref)
	c.mu.Unlock()
	c.deletedCh <- ref
	return nil
}

func (c *fakeChat) IsMember(_ context.Context, userID string) (bool, error) {
	c.log.add("chat.ismember")
	return c.members[userID], nil
}

func (c *fakeChat) GrantMembership(_ context.Context, userID string) error {
	c.log.add("chat.grant")
	if c.grantErr != nil {
		return c.grantErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.granted = append(c.granted, userID)
	return nil
}

func (c *fakeChat) dmsFor(userID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.dms[userID]...)
}

type decidedRecord struct {
	ID      string
	ModID   string
	Outcome models.Status
	DoneAt  time.Time
}

type fakeStore struct {
	log *callLog

	mu        sync.Mutex
	created   []models.VerificationRequest
	decided   []decidedRecord
	pending   []models.VerificationRequest
	createErr error
	decideErr error
}

func (s *fakeStore) CreateVerification(v models.VerificationRequest) error {
	s.log.add("store.create")
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, v)
	return nil
}

func (s *fakeStore) DecideVerification(id, modID string, outcome models.Status, doneAt time.Time) error {
	s.log.add("store.decide")
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.decideErr != nil {
		return s.decideErr
	}
	for _, d := range s.decided {
		if d.ID == id {
			return errAlreadyDecided
		}
	}
	s.decided = append(s.decided, decidedRecord{ID: id, ModID: modID, Outcome: outcome, DoneAt: doneAt})
	return nil
}

func (s *fakeStore) ListPendingVerifications() ([]models.VerificationRequest, error) {
	return append([]models.VerificationRequest(nil), s.pending...), nil
}

// stands in for storage.ErrAlreadyDecided without importing the package
var errAlreadyDecided = errors.New("verification already decided")

func newHarness() (*fakeChat, *fakeStore, *CardRegistry, *Orchestrator) {
	log := &callLog{}
	chat := newFakeChat()
	chat.log = log
	store := &fakeStore{log: log}
	cards := NewCardRegistry()
	intake := &Intake{Chat: chat, Timeout: 300 * time.Second}
	orch := NewOrchestrator(store, chat, intake, cards, nil)
	orch.newID = func() string { return "test-id" }
	orch.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return chat, store, cards, orch
}
