package verify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntake(chat *fakeChat) *Intake {
	return &Intake{Chat: chat, Timeout: 300 * time.Second}
}

func TestIntakeTimeout(t *testing.T) {
	chat := newFakeChat()
	chat.awaitErr = ErrEvidenceTimeout

	_, err := newIntake(chat).Collect(context.Background(), "u1")

	assert.ErrorIs(t, err, ErrEvidenceTimeout)
	require.Len(t, chat.dmsFor("u1"), 1)
	assert.Equal(t, noticeTimeout, chat.dmsFor("u1")[0])
}

func TestIntakeNoAttachment(t *testing.T) {
	chat := newFakeChat()
	chat.awaitMsg = &Message{AuthorID: "u1"}

	_, err := newIntake(chat).Collect(context.Background(), "u1")

	var invalid *InvalidEvidenceError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "no attachment", invalid.Reason)
	assert.Equal(t, []string{noticeNoFile}, chat.dmsFor("u1"))
}

func TestIntakeWrongFileType(t *testing.T) {
	chat := newFakeChat()
	chat.awaitMsg = &Message{
		AuthorID:    "u1",
		Attachments: []Attachment{{Filename: "doc.pdf", URL: "https://cdn/doc.pdf"}},
	}

	_, err := newIntake(chat).Collect(context.Background(), "u1")

	var invalid *InvalidEvidenceError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "unsupported file type", invalid.Reason)
	assert.Equal(t, []string{noticeBadType}, chat.dmsFor("u1"))
}

func TestIntakeSuccess(t *testing.T) {
	chat := newFakeChat()
	chat.awaitMsg = &Message{
		AuthorID:    "u1",
		Attachments: []Attachment{{Filename: "Doc.PNG", URL: "https://cdn/doc.png"}},
	}
	chat.rehostURL = "https://cdn.example.com/PAL-u1.png"

	url, err := newIntake(chat).Collect(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/PAL-u1.png", url)
	assert.Empty(t, chat.dmsFor("u1"), "no failure notice on success")
}

func TestIsImageFilename(t *testing.T) {
	assert.True(t, isImageFilename("a.png"))
	assert.True(t, isImageFilename("a.jpg"))
	assert.True(t, isImageFilename("a.JPEG"))
	assert.False(t, isImageFilename("a.pdf"))
	assert.False(t, isImageFilename("png"))
}
