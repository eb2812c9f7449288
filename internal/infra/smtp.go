package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/hercules830/nexa-control-app-sub000/internal/config"
)

// Mailer sends low-stock alert mails. All sends go through the circuit
// breaker: after repeated SMTP failures the breaker opens and alert jobs
// fast-fail into the DLQ until the server recovers.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.AlertFrom,
		cb:       NewCircuitBreaker(DefaultCBConfig()),
	}
}

// BreakerState reports the circuit breaker state so background jobs can
// skip work while SMTP is known to be down.
func (m *Mailer) BreakerState() CBState { return m.cb.State() }

// Send delivers a plain-text mail through the configured SMTP relay.
func (m *Mailer) Send(to, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("SMTP no configurado")
	}
	return m.cb.Execute(func() error {
		e := email.NewEmail()
		e.From = m.from
		e.To = []string{to}
		e.Subject = subject
		e.Text = []byte(body)
		addr := fmt.Sprintf("%s:%d", m.host, m.port)
		return e.Send(addr, smtp.PlainAuth("", m.user, m.password, m.host))
	})
}
