package discord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/AwesomeSam9523/muj-bot/internal/config"
	"github.com/AwesomeSam9523/muj-bot/internal/verify"
)

// Client adapts a discordgo gateway session to the narrow chat interface
// the verification workflow consumes. The core never sees discordgo types.
type Client struct {
	session *discordgo.Session
	cfg     config.DiscordConfig
	waiters *dmWaiters
	http    *http.Client

	orch    *verify.Orchestrator
	decider *verify.Decider
}

func New(cfg config.DiscordConfig) (*Client, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return &Client{
		session: session,
		cfg:     cfg,
		waiters: newDMWaiters(),
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Bind attaches the workflow entry points the gateway handlers dispatch to.
// Must be called before Open.
func (c *Client) Bind(orch *verify.Orchestrator, decider *verify.Decider) {
	c.orch = orch
	c.decider = decider
}

// Open registers the gateway handlers and connects.
func (c *Client) Open() error {
	c.session.AddHandler(c.onMessageCreate)
	c.session.AddHandler(c.onInteractionCreate)
	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.session.Close()
}

/* ------------------------------------------------------------------
   verify.Chat implementation
-------------------------------------------------------------------*/

func (c *Client) SendDM(_ context.Context, userID, content string) error {
	ch, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return verify.ErrUserUnreachable
	}
	if _, err := c.session.ChannelMessageSend(ch.ID, content); err != nil {
		return verify.ErrUserUnreachable
	}
	return nil
}

func (c *Client) AwaitDM(ctx context.Context, userID string, timeout time.Duration) (*verify.Message, error) {
	recv, cancel := c.waiters.register(userID)
	defer cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-recv:
		return msg, nil
	case <-timer.C:
		return nil, verify.ErrEvidenceTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Rehost downloads the attachment and re-uploads it into the storage
// channel, yielding a URL that outlives the original DM attachment.
func (c *Client) Rehost(ctx context.Context, att verify.Attachment, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download attachment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download attachment: unexpected status %d", resp.StatusCode)
	}

	msg, err := c.session.ChannelFileSend(c.cfg.StorageChannelID, filename, resp.Body)
	if err != nil {
		return "", fmt.Errorf("upload to storage channel: %w", err)
	}
	if len(msg.Attachments) == 0 {
		return "", fmt.Errorf("storage message %s carries no attachment", msg.ID)
	}
	return msg.Attachments[0].URL, nil
}

func (c *Client) PostCard(_ context.Context, card verify.Card) (verify.CardRef, error) {
	embed := &discordgo.MessageEmbed{
		Title: "Verification Request",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{{
			Name:  "User",
			Value: fmt.Sprintf("<@%s> | ID: `%s`", card.RequesterID, card.RequesterID),
		}},
		Image: &discordgo.MessageEmbedImage{URL: card.ImageURL},
	}
	msg, err := c.session.ChannelMessageSendComplex(c.cfg.ModChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: cardComponents(card.VerificationID),
	})
	if err != nil {
		return verify.CardRef{}, fmt.Errorf("post approval card: %w", err)
	}
	return verify.CardRef{ChannelID: msg.ChannelID, MessageID: msg.ID}, nil
}

func (c *Client) DeleteMessage(_ context.Context, ref verify.CardRef) error {
	return c.session.ChannelMessageDelete(ref.ChannelID, ref.MessageID)
}

func (c *Client) IsMember(_ context.Context, userID string) (bool, error) {
	_, err := c.session.GuildMember(c.cfg.GuildID, userID)
	if err != nil {
		if isUnknownMember(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *Client) GrantMembership(_ context.Context, userID string) error {
	return c.session.GuildMemberRoleAdd(c.cfg.GuildID, userID, c.cfg.MembershipRoleID)
}

func isUnknownMember(err error) bool {
	restErr, ok := err.(*discordgo.RESTError)
	if !ok || restErr.Message == nil {
		return false
	}
	return restErr.Message.Code == discordgo.ErrCodeUnknownMember ||
		restErr.Message.Code == discordgo.ErrCodeUnknownUser
}
