package notify

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/AwesomeSam9523/muj-bot/internal/config"
	"github.com/AwesomeSam9523/muj-bot/internal/models"
)

// Mailer emails the moderator team when a new verification request lands
// in the moderation channel, for teams that watch a shared inbox rather
// than Discord.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer returns nil when no SMTP host is configured, which disables
// the notification entirely.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &Mailer{cfg: cfg}
}

// NewRequest sends the notification. Failures are logged, never surfaced
// into the verification flow.
func (m *Mailer) NewRequest(v models.VerificationRequest) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.To)
	msg.SetHeader("Subject", fmt.Sprintf("New verification request %s", v.ID))
	msg.SetBody("text/plain", fmt.Sprintf(
		"User %s submitted a verification request at %s.\n\nEvidence: %s\n\nReview it in the moderation channel.",
		v.UserID, v.CreatedAt.Format("2006-01-02 15:04:05 MST"), v.ImageURL,
	))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, "", "")
	if err := d.DialAndSend(msg); err != nil {
		log.Printf("moderator mail for %s: %v", v.ID, err)
	}
}
