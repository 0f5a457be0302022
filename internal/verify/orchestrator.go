package verify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AwesomeSam9523/muj-bot/internal/models"
)

const (
	noticeInstructions = "Please upload the document screenshot here. Make sure to hide your application number for security reasons."
	noticeUnderReview  = "🟡 Your verification request has been sent to our moderators. Please wait for them to review it."
	noticeStoreFailure = "Something went wrong on our side. Please try again later."
)

// Orchestrator drives one user through evidence intake, record creation
// and moderator notification. Per user the flow is strictly sequential;
// flows for different users interleave freely.
type Orchestrator struct {
	store  Store
	chat   Chat
	intake *Intake
	active *ActiveSet
	cards  *CardRegistry
	notify Notifier // optional

	now   func() time.Time
	newID func() string
}

func NewOrchestrator(store Store, chat Chat, intake *Intake, cards *CardRegistry, notify Notifier) *Orchestrator {
	return &Orchestrator{
		store:  store,
		chat:   chat,
		intake: intake,
		active: NewActiveSet(),
		cards:  cards,
		notify: notify,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Active exposes the in-flight set, mainly for tests and diagnostics.
func (o *Orchestrator) Active() *ActiveSet {
	return o.active
}

// Begin is the entry action. It claims the user's active-set slot before
// any network call is made, then opens the DM conversation with the
// upload instructions. On ErrUserUnreachable no attempt stays registered.
func (o *Orchestrator) Begin(ctx context.Context, userID string) error {
	if !o.active.TryAdd(userID) {
		return ErrDuplicateAttempt
	}
	if err := o.chat.SendDM(ctx, userID, noticeInstructions); err != nil {
		o.active.Remove(userID)
		return ErrUserUnreachable
	}
	return nil
}

// Resume runs the rest of the flow after a successful Begin: wait for
// evidence, persist the pending record, post the approval card, tell the
// user their request is under review. The active-set slot is released on
// every exit path so the user can restart after an abort.
func (o *Orchestrator) Resume(ctx context.Context, userID string) error {
	defer o.active.Remove(userID)

	imageURL, err := o.intake.Collect(ctx, userID)
	if err != nil {
		return err
	}

	v := models.VerificationRequest{
		ID:        o.newID(),
		UserID:    userID,
		ImageURL:  imageURL,
		Status:    models.StatusPending,
		CreatedAt: o.now().UTC(),
	}
	if err := o.store.CreateVerification(v); err != nil {
		_ = o.chat.SendDM(ctx, userID, noticeStoreFailure)
		return fmt.Errorf("persist verification: %w", err)
	}

	card := Card{VerificationID: v.ID, RequesterID: userID, ImageURL: imageURL}
	if _, err := o.chat.PostCard(ctx, card); err != nil {
		return fmt.Errorf("post approval card: %w", err)
	}
	o.cards.Register(card)

	_ = o.chat.SendDM(ctx, userID, noticeUnderReview)
	log.Printf("verification %s created for user %s", v.ID, userID)

	if o.notify != nil {
		go o.notify.NewRequest(v)
	}
	return nil
}

// Start runs Begin and Resume back to back. Callers that must report the
// entry-action outcome before the long evidence wait use the two halves
// directly.
func (o *Orchestrator) Start(ctx context.Context, userID string) error {
	if err := o.Begin(ctx, userID); err != nil {
		return err
	}
	return o.Resume(ctx, userID)
}
