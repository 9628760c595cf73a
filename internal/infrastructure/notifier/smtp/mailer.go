package smtp

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
	"github.com/kirillkom/tour-inquiry-service/internal/infrastructure/resilience"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool
}

// Mailer delivers triage notifications over SMTP. Sends go through the
// resilience executor when one is configured; SMTP outages must not
// stall a triage pass.
type Mailer struct {
	client   *mail.Client
	from     string
	executor *resilience.Executor
}

func NewMailer(cfg Config, executor *resilience.Executor) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if !cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{client: client, from: cfg.From, executor: executor}, nil
}

func (m *Mailer) Send(ctx context.Context, n domain.Notification) error {
	if len(n.To) == 0 {
		return fmt.Errorf("notification has no recipients")
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(n.To...); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextPlain, n.Text)
	if n.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, n.HTML)
	}

	call := func(callCtx context.Context) error {
		if err := m.client.DialAndSendWithContext(callCtx, msg); err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}

	if m.executor != nil {
		return m.executor.Execute(ctx, "smtp.send", call, classifySMTPError)
	}
	return call(ctx)
}

func classifySMTPError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	// Dial and handshake failures are transient far more often than not.
	return resilience.ErrorClassification{
		Retryable:     true,
		RecordFailure: true,
	}
}
