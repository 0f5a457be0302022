package discord

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/AwesomeSam9523/muj-bot/internal/verify"
)

const (
	embedColor = 0x5865F2

	startCustomID  = "authenticator_start"
	approvePrefix  = "approval:"
	declinePrefix  = "decline:"
	launchImageURL = "https://media.discordapp.net/attachments/1134027066208165909/1134095873136140434/Manipal_University1679046981_upload_logo.jpg"
)

const launchDescription = `
To get full access to the server you must verify yourself that you are a student from Manipal University Jaipur. To verify please upload your Provisional Admission Order or any other proof that shows that you are a student of Manipal University Jaipur.

*Please hide your application number for security reasons.*
`

func cardComponents(verificationID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Accept",
					Style:    discordgo.SuccessButton,
					CustomID: approvePrefix + verificationID,
				},
				discordgo.Button{
					Label:    "Decline",
					Style:    discordgo.DangerButton,
					CustomID: declinePrefix + verificationID,
				},
			},
		},
	}
}

// parseDecision turns a button custom id back into the typed command the
// decider consumes. The id on the wire is what keeps cards working across
// restarts.
func parseDecision(customID string, card verify.CardRef) (verify.Decision, bool) {
	switch {
	case strings.HasPrefix(customID, approvePrefix):
		return verify.Decision{
			Action:         verify.ActionApprove,
			VerificationID: strings.TrimPrefix(customID, approvePrefix),
			Card:           card,
		}, true
	case strings.HasPrefix(customID, declinePrefix):
		return verify.Decision{
			Action:         verify.ActionDecline,
			VerificationID: strings.TrimPrefix(customID, declinePrefix),
			Card:           card,
		}, true
	}
	return verify.Decision{}, false
}

func (c *Client) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	// Direct messages feed whichever evidence wait is in flight.
	if m.GuildID == "" {
		msg := &verify.Message{AuthorID: m.Author.ID}
		for _, a := range m.Attachments {
			msg.Attachments = append(msg.Attachments, verify.Attachment{
				Filename: a.Filename,
				URL:      a.URL,
			})
		}
		c.waiters.dispatch(msg)
		return
	}

	if strings.TrimSpace(m.Content) == c.cfg.Prefix+"launch" {
		c.postLaunchEmbed(m.ChannelID)
	}
}

// postLaunchEmbed publishes the instructional embed with the persistent
// Start button.
func (c *Client) postLaunchEmbed(channelID string) {
	embed := &discordgo.MessageEmbed{
		Title:       "Authentication",
		Description: launchDescription,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{{
			Name:  "Where do I start?",
			Value: "Click the button below to start the authentication process!",
		}},
		Footer: &discordgo.MessageEmbedFooter{Text: "Make sure to have your DMs open."},
		Image:  &discordgo.MessageEmbedImage{URL: launchImageURL},
	}
	_, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Start",
						Style:    discordgo.PrimaryButton,
						CustomID: startCustomID,
					},
				},
			},
		},
	})
	if err != nil {
		log.Printf("post launch embed: %v", err)
	}
}

func (c *Client) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	customID := i.MessageComponentData().CustomID

	if customID == startCustomID {
		c.handleStart(s, i)
		return
	}

	ref := verify.CardRef{}
	if i.Message != nil {
		ref = verify.CardRef{ChannelID: i.ChannelID, MessageID: i.Message.ID}
	}
	if dec, ok := parseDecision(customID, ref); ok {
		c.handleDecision(s, i, dec)
	}
}

// handleStart is the verification entry action. The duplicate check and
// the DM open happen synchronously so the interaction can be answered
// within Discord's response window; the long evidence wait runs after the
// acknowledgement.
func (c *Client) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := interactionUserID(i)
	if userID == "" {
		return
	}

	err := c.orch.Begin(context.Background(), userID)
	switch {
	case errors.Is(err, verify.ErrDuplicateAttempt):
		respondEphemeral(s, i, "You have already begun the process. Please cancel or wait for it to timeout. This should be no longer than 5 minutes.")
	case errors.Is(err, verify.ErrUserUnreachable):
		respondEphemeral(s, i, "I cannot DM you. Please open your DMs to continue.")
	case err != nil:
		log.Printf("begin verification for %s: %v", userID, err)
		respondEphemeral(s, i, "Something went wrong. Please try again later.")
	default:
		ack(s, i)
		go func() {
			if err := c.orch.Resume(context.Background(), userID); err != nil {
				log.Printf("verification flow for %s aborted: %v", userID, err)
			}
		}()
	}
}

func (c *Client) handleDecision(s *discordgo.Session, i *discordgo.InteractionCreate, dec verify.Decision) {
	modID := interactionUserID(i)
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		log.Printf("defer decision response: %v", err)
		return
	}

	reply, err := c.decider.Handle(context.Background(), dec, modID)
	switch {
	case errors.Is(err, verify.ErrMemberGone):
		reply = "User not found. They might have left the server."
	case errors.Is(err, verify.ErrUnknownCard):
		reply = "This request has already been handled."
	case err != nil:
		log.Printf("decision %s on %s: %v", modID, dec.VerificationID, err)
		reply = "Something went wrong while applying the decision. Please try again."
	}

	if _, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: reply,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Printf("decision followup: %v", err)
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("interaction respond: %v", err)
	}
}

// ack acknowledges a component interaction without posting anything.
func ack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		log.Printf("interaction ack: %v", err)
	}
}
