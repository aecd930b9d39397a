// Package mailer composes and delivers the emails the application sends:
// quote documents to customers and password reset links to users.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/diewo77/offermaster/internal/config"
	"github.com/diewo77/offermaster/internal/logger"
)

// Attachment is a file sent with a message.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Message is an outgoing HTML email.
type Message struct {
	To          string
	ToName      string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTP delivers through an SMTP relay.
type SMTP struct {
	cfg config.MailConfig
}

// NewSMTP returns a Sender for cfg. Connections are opened per message.
func NewSMTP(cfg config.MailConfig) *SMTP {
	return &SMTP{cfg: cfg}
}

func (s *SMTP) build(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if msg.ToName != "" {
		if err := m.AddToFormat(msg.ToName, msg.To); err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
	} else if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	for _, a := range msg.Attachments {
		if err := m.AttachReader(a.Name, bytes.NewReader(a.Data), mail.WithFileContentType(mail.ContentType(a.ContentType))); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Name, err)
		}
	}
	return m, nil
}

// Send implements Sender.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	opts := []mail.Option{mail.WithPort(s.cfg.Port)}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Log writes messages to the log instead of sending them.
type Log struct{}

// Send implements Sender.
func (Log) Send(ctx context.Context, msg Message) error {
	names := make([]string, len(msg.Attachments))
	for i, a := range msg.Attachments {
		names[i] = a.Name
	}
	logger.FromContext(ctx).Info("mail not sent (no SMTP host configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Strings("attachments", names),
	)
	return nil
}

// Recorder keeps messages in memory.
type Recorder struct {
	mu   sync.Mutex
	Sent []Message
	Err  error
}

// Send implements Sender.
func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, msg)
	return nil
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Sent) == 0 {
		return Message{}, false
	}
	return r.Sent[len(r.Sent)-1], true
}

var (
	quoteTmpl = template.Must(template.New("quote").Parse(`<p>Poštovani {{.Name}},</p>
<p>u privitku Vam šaljemo ponudu broj {{.QuoteID}}.</p>
<p>Srdačan pozdrav,<br>{{.Sender}}</p>`))

	resetTmpl = template.Must(template.New("reset").Parse(`<p>Pozdrav {{.Name}},</p>
<p>Zatražili ste promjenu lozinke. Kliknite na poveznicu u sljedećih {{.Minutes}} minuta:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>Ako niste zatražili promjenu, zanemarite ovu poruku.</p>`))
)

// QuoteBody renders the body of a quote email.
func QuoteBody(name string, quoteID uint, sender string) (string, error) {
	var b bytes.Buffer
	err := quoteTmpl.Execute(&b, map[string]any{"Name": name, "QuoteID": quoteID, "Sender": sender})
	return b.String(), err
}

// ResetBody renders the body of a password reset email.
func ResetBody(name, link string, minutes int) (string, error) {
	var b bytes.Buffer
	err := resetTmpl.Execute(&b, map[string]any{"Name": name, "Link": link, "Minutes": minutes})
	return b.String(), err
}
