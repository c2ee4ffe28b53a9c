package notify

import (
	"log"
	"time"

	gomail "gopkg.in/mail.v2"
)

const smtpTimeout = 10 * time.Second

// EmailConfig holds SMTP configuration for sending the analysis report.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
}

// Enabled reports whether enough is configured to attempt delivery.
func (c EmailConfig) Enabled() bool {
	return c.SMTPServer != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.ToEmail != ""
}

// EmailSender delivers the analysis report via SMTP.
type EmailSender struct {
	cfg EmailConfig
}

// NewEmailSender defaults the sender address to the SMTP user.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Enabled() bool {
	return s.cfg.Enabled()
}

// Send delivers msg as plain text with an HTML alternative when both are present.
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled() {
		return nil
	}

	m := buildMessage(s.cfg, msg)

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = smtpTimeout

	log.Printf("Emailing report (SMTP: %s:%d).", s.cfg.SMTPServer, s.cfg.SMTPPort)
	if err := dialer.DialAndSend(m); err != nil {
		return err
	}

	log.Printf("Email sent: %s", msg.Subject)
	return nil
}

func buildMessage(cfg EmailConfig, msg *RenderedMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.FromEmail)
	m.SetHeader("To", cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	switch {
	case msg.HTML != "" && msg.Text != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m
}
