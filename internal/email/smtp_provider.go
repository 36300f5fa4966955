package email

import (
	"fmt"

	"studlance_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider sends mail through a plain SMTP relay.
type SMTPProvider struct {
	cfg *config.Config
}

func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.Email.FromEmail, p.cfg.Email.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		p.cfg.Email.SMTPHost,
		p.cfg.Email.SMTPPort,
		p.cfg.Email.SMTPUsername,
		p.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (p *SMTPProvider) SendWelcome(to, name string) error {
	return p.Send(to, "Welcome to StudLance", renderWelcome(name))
}

func (p *SMTPProvider) SendVerification(to, token string) error {
	return p.Send(to, "Verify your email", renderVerification(token))
}

// NoopProvider is used when email is disabled (development, tests).
type NoopProvider struct{}

func (NoopProvider) Send(to, subject, htmlBody string) error { return nil }
func (NoopProvider) SendWelcome(to, name string) error       { return nil }
func (NoopProvider) SendVerification(to, token string) error { return nil }

var _ Provider = (*SMTPProvider)(nil)
var _ Provider = NoopProvider{}

// NewProvider picks the configured provider.
func NewProvider(cfg *config.Config) Provider {
	if !cfg.Email.Enabled || cfg.Email.SMTPHost == "" {
		return NoopProvider{}
	}
	return NewSMTPProvider(cfg)
}

func renderWelcome(name string) string {
	return fmt.Sprintf(`<h2>Welcome, %s!</h2>
<p>Your StudLance account is ready. Complete your profile to start posting
projects or sending proposals.</p>`, name)
}

func renderVerification(token string) string {
	return fmt.Sprintf(`<h2>Verify your email</h2>
<p>Use the following code to verify your address:</p>
<pre>%s</pre>`, token)
}
