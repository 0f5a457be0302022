package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	noticeTimeout = "You took too long to respond. Please try again."
	noticeNoFile  = "You did not send any attachments. Please try again by restarting the process."
	noticeBadType = "You did not send a valid image (`png`, `jpg` or `jpeg`). Please try again by restarting the process."
)

var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// Intake collects exactly one qualifying evidence message from a user
// within a bounded waiting window. It is single-shot: the first message
// is evaluated and the flow aborts on any failure, no retry loop.
type Intake struct {
	Chat    Chat
	Timeout time.Duration
}

// Collect waits for the user's next direct message, validates the
// attachment and re-hosts it in the storage channel. The returned URL is
// durable and independent of the original attachment's lifetime.
func (in *Intake) Collect(ctx context.Context, userID string) (string, error) {
	msg, err := in.Chat.AwaitDM(ctx, userID, in.Timeout)
	if err != nil {
		if errors.Is(err, ErrEvidenceTimeout) {
			_ = in.Chat.SendDM(ctx, userID, noticeTimeout)
		}
		return "", err
	}

	if len(msg.Attachments) == 0 {
		_ = in.Chat.SendDM(ctx, userID, noticeNoFile)
		return "", &InvalidEvidenceError{Reason: "no attachment"}
	}

	att := msg.Attachments[0]
	if !isImageFilename(att.Filename) {
		_ = in.Chat.SendDM(ctx, userID, noticeBadType)
		return "", &InvalidEvidenceError{Reason: "unsupported file type"}
	}

	url, err := in.Chat.Rehost(ctx, att, fmt.Sprintf("PAL-%s.png", userID))
	if err != nil {
		return "", fmt.Errorf("rehost evidence: %w", err)
	}
	return url, nil
}

func isImageFilename(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
