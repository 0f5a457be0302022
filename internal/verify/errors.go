package verify

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAttempt means the user already has a flow in flight.
	ErrDuplicateAttempt = errors.New("verification already in progress")

	// ErrUserUnreachable means the user's direct messages are closed.
	ErrUserUnreachable = errors.New("cannot send a direct message to the user")

	// ErrEvidenceTimeout means no qualifying message arrived in time.
	ErrEvidenceTimeout = errors.New("timed out waiting for evidence")

	// ErrMemberGone means the requester left the guild before a moderator acted.
	ErrMemberGone = errors.New("member is no longer in the guild")

	// ErrUnknownCard means a decision arrived for an id with no registered card.
	ErrUnknownCard = errors.New("no approval card registered for this id")
)

// InvalidEvidenceError reports why an uploaded message did not qualify.
type InvalidEvidenceError struct {
	Reason string
}

func (e *InvalidEvidenceError) Error() string {
	return fmt.Sprintf("invalid evidence: %s", e.Reason)
}
