package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"farmacierre/internal/config"

	"github.com/jordan-wright/email"
)

// XLSXContentType is the MIME type of report attachments.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrSMTPNoConfigurado is returned when SMTP_HOST is empty.
var ErrSMTPNoConfigurado = errors.New("mailer: SMTP no configurado")

// Adjunto is an in-memory attachment.
type Adjunto struct {
	Nombre      string
	ContentType string
	Datos       []byte
}

// Mailer sends report emails over SMTP. Every send goes through a circuit
// breaker so a dead relay fails fast.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig())
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
		send:     func(e *email.Email, addr string, auth smtp.Auth) error { return e.Send(addr, auth) },
	}
}

// Breaker exposes the SMTP circuit breaker for the health endpoint.
func (m *Mailer) Breaker() *CircuitBreaker { return m.cb }

// SendReporte sends body to every recipient with the given attachments.
func (m *Mailer) SendReporte(to []string, subject, body string, adjuntos ...Adjunto) error {
	if m.host == "" {
		return ErrSMTPNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	for _, a := range adjuntos {
		if _, err := e.Attach(bytes.NewReader(a.Datos), a.Nombre, a.ContentType); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", a.Nombre, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.cb.Execute(func() error { return m.send(e, m.addr, auth) })
}
