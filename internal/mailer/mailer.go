package mailer

import (
	"context"
	"fmt"

	"github.com/castroh/pdi-agent/internal/config"
	"github.com/wneessen/go-mail"
)

// Mailer delivers password-reset tokens over SMTP submission with STARTTLS.
type Mailer struct {
	client *mail.Client
	from   string
}

// NewMailer constructs the SMTP client at process start.
func NewMailer(cfg config.MailConfig) (*Mailer, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("mail credentials are not configured")
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &Mailer{client: client, from: from}, nil
}

// SendResetToken mails the reset token with plain-text and HTML parts.
func (m *Mailer) SendResetToken(ctx context.Context, recipient, token string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject("PDI Agente - Redefinição de Senha")
	msg.SetBodyString(mail.TypeTextPlain, plainBody(token))
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody(token))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset e-mail: %w", err)
	}
	return nil
}

func plainBody(token string) string {
	return fmt.Sprintf(`Olá,
Você solicitou a redefinição de sua senha na plataforma PDI Agente.
Use o seguinte token para criar uma nova senha:
%s
Se você não solicitou isso, por favor, ignore este e-mail.
`, token)
}

func htmlBody(token string) string {
	return fmt.Sprintf(`<html>
  <body>
    <h2>PDI Agente - Redefinição de Senha</h2>
    <p>Olá,</p>
    <p>Você solicitou a redefinição de sua senha na plataforma PDI Agente.</p>
    <p>Use o seguinte token para criar uma nova senha na aplicação:</p>
    <p style="font-size: 1.5em; font-weight: bold; letter-spacing: 2px; background-color: #f0f0f0; padding: 10px; border-radius: 5px;">%s</p>
    <p>Se você não solicitou isso, por favor, ignore este e-mail.</p>
    <br>
    <p>Atenciosamente,</p>
    <p>Equipe PDI Agente</p>
  </body>
</html>`, token)
}
