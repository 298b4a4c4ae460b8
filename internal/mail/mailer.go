package mail

import (
	"fmt"

	"github.com/lenbersih/lenbersih-api/internal/config"
	"github.com/lenbersih/lenbersih-api/internal/dto"
	"gopkg.in/gomail.v2"
)

// Mailer is the outbound mail capability. Callers treat delivery as
// best-effort; a failed notification never undoes a stored report.
type Mailer interface {
	SendReportNotification(report *dto.Report) error
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends over an authenticated STARTTLS SMTP session via gomail.
type SMTPMailer struct {
	cfg    *config.Config
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.MailFrom, m.cfg.MailFromName)
	msg.SetAddressHeader("To", to, "Report Administrator")
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func (m *SMTPMailer) SendReportNotification(report *dto.Report) error {
	body, err := ReportNotificationBody(report)
	if err != nil {
		return fmt.Errorf("failed to render notification body: %w", err)
	}

	subject := fmt.Sprintf("New Whistleblowing Report - %s (ID: %d)", report.Category, report.ID)
	return m.Send(m.cfg.AdminEmail, subject, body)
}
