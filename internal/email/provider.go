package email

// Provider sends transactional mail. All sends are best-effort: callers log
// failures and continue.
type Provider interface {
	Send(to, subject, htmlBody string) error
	SendWelcome(to, name string) error
	SendVerification(to, token string) error
}
