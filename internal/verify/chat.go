package verify

import (
	"context"
	"time"

	"github.com/AwesomeSam9523/muj-bot/internal/models"
)

// Attachment is a file attached to an inbound direct message.
type Attachment struct {
	Filename string
	URL      string
}

// Message is the slice of an inbound direct message this package cares about.
type Message struct {
	AuthorID    string
	Attachments []Attachment
}

// Card binds an approval card to one verification record. The card itself
// carries no other verification data; the record store stays the single
// source of truth for status.
type Card struct {
	VerificationID string
	RequesterID    string
	ImageURL       string
}

// CardRef locates the posted card message so it can be removed later.
type CardRef struct {
	ChannelID string
	MessageID string
}

// Chat is everything the verification workflow needs from the chat
// platform. The discord package adapts a gateway session to it.
type Chat interface {
	// SendDM delivers a direct message. Returns ErrUserUnreachable when
	// the user's DMs are closed.
	SendDM(ctx context.Context, userID, content string) error

	// AwaitDM blocks until the next direct message from userID arrives or
	// the timeout expires, in which case it returns ErrEvidenceTimeout.
	AwaitDM(ctx context.Context, userID string, timeout time.Duration) (*Message, error)

	// Rehost copies an attachment into the controlled storage channel and
	// returns the resulting durable URL.
	Rehost(ctx context.Context, att Attachment, filename string) (string, error)

	// PostCard sends the approval card to the moderation channel.
	PostCard(ctx context.Context, card Card) (CardRef, error)

	// DeleteMessage removes a previously posted message.
	DeleteMessage(ctx context.Context, ref CardRef) error

	// IsMember reports whether the user is currently a guild member.
	IsMember(ctx context.Context, userID string) (bool, error)

	// GrantMembership adds the membership role to the user.
	GrantMembership(ctx context.Context, userID string) error
}

// Store is the subset of the record store the workflow uses.
type Store interface {
	CreateVerification(v models.VerificationRequest) error
	DecideVerification(id, modID string, outcome models.Status, doneAt time.Time) error
	ListPendingVerifications() ([]models.VerificationRequest, error)
}

// Notifier is told about freshly posted verification requests. Implementations
// must not block the calling flow on failure; errors are theirs to log.
type Notifier interface {
	NewRequest(v models.VerificationRequest)
}
