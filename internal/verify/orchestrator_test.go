package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AwesomeSam9523/muj-bot/internal/models"
)

func TestBeginRejectsDuplicateAttempt(t *testing.T) {
	_, _, _, orch := newHarness()

	require.NoError(t, orch.Begin(context.Background(), "u1"))
	err := orch.Begin(context.Background(), "u1")

	assert.ErrorIs(t, err, ErrDuplicateAttempt)
	assert.Equal(t, 1, orch.Active().Len())
}

func TestBeginUnreachableUser(t *testing.T) {
	chat, _, _, orch := newHarness()
	chat.dmErr["u1"] = errors.New("cannot send messages to this user")

	err := orch.Begin(context.Background(), "u1")

	assert.ErrorIs(t, err, ErrUserUnreachable)
	assert.False(t, orch.Active().Contains("u1"), "no attempt registered when DMs are closed")
}

func TestFlowTimeoutCreatesNoRecord(t *testing.T) {
	chat, store, _, orch := newHarness()
	chat.awaitErr = ErrEvidenceTimeout

	err := orch.Start(context.Background(), "u1")

	assert.ErrorIs(t, err, ErrEvidenceTimeout)
	assert.Empty(t, store.created)
	assert.False(t, orch.Active().Contains("u1"), "slot released so the user can restart")
	assert.Contains(t, chat.dmsFor("u1"), noticeTimeout)
}

func TestFlowInvalidEvidenceCreatesNoRecord(t *testing.T) {
	chat, store, _, orch := newHarness()
	chat.awaitMsg = &Message{
		AuthorID:    "u1",
		Attachments: []Attachment{{Filename: "doc.pdf", URL: "https://cdn/doc.pdf"}},
	}

	err := orch.Start(context.Background(), "u1")

	var invalid *InvalidEvidenceError
	assert.ErrorAs(t, err, &invalid)
	assert.Empty(t, store.created)
	assert.False(t, orch.Active().Contains("u1"))
}

func TestFlowSuccess(t *testing.T) {
	chat, store, cards, orch := newHarness()
	chat.awaitMsg = &Message{
		AuthorID:    "u1",
		Attachments: []Attachment{{Filename: "doc.png", URL: "https://cdn/doc.png"}},
	}

	require.NoError(t, orch.Start(context.Background(), "u1"))

	require.Len(t, store.created, 1)
	v := store.created[0]
	assert.Equal(t, "test-id", v.ID)
	assert.Equal(t, "u1", v.UserID)
	assert.Equal(t, models.StatusPending, v.Status)
	assert.Equal(t, chat.rehostURL, v.ImageURL)
	assert.Nil(t, v.ModID)
	assert.Nil(t, v.DoneAt)

	require.Len(t, chat.cards, 1)
	assert.Equal(t, "test-id", chat.cards[0].VerificationID)
	_, registered := cards.Lookup("test-id")
	assert.True(t, registered, "card must be actionable after posting")

	assert.Contains(t, chat.dmsFor("u1"), noticeUnderReview)
	assert.False(t, orch.Active().Contains("u1"))
}

func TestFlowRecordPersistsBeforeCardIsPosted(t *testing.T) {
	chat, store, _, orch := newHarness()
	chat.awaitMsg = &Message{
		AuthorID:    "u1",
		Attachments: []Attachment{{Filename: "doc.png", URL: "https://cdn/doc.png"}},
	}

	require.NoError(t, orch.Start(context.Background(), "u1"))

	createIdx := store.log.index("store.create")
	postIdx := store.log.index("chat.postcard")
	require.GreaterOrEqual(t, createIdx, 0)
	require.GreaterOrEqual(t, postIdx, 0)
	assert.Less(t, createIdx, postIdx)
}

func TestFlowStoreFailureNotifiesUser(t *testing.T) {
	chat, store, cards, orch := newHarness()
	chat.awaitMsg = &Message{
		AuthorID:    "u1",
		Attachments: []Attachment{{Filename: "doc.png", URL: "https://cdn/doc.png"}},
	}
	store.createErr = errors.New("connection refused")

	err := orch.Start(context.Background(), "u1")

	require.Error(t, err)
	assert.Contains(t, chat.dmsFor("u1"), noticeStoreFailure)
	assert.Empty(t, chat.cards, "no card without a persisted record")
	assert.Equal(t, 0, cards.Len())
	assert.False(t, orch.Active().Contains("u1"))
}

func TestFlowsForDifferentUsersInterleave(t *testing.T) {
	_, _, _, orch := newHarness()

	require.NoError(t, orch.Begin(context.Background(), "u1"))
	require.NoError(t, orch.Begin(context.Background(), "u2"))

	assert.Equal(t, 2, orch.Active().Len())
}
