package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"pawperfection/sender"

	"go.uber.org/zap"
)

// PaymentEmailData carries everything the payment email templates render.
type PaymentEmailData struct {
	UserEmail   string
	UserName    string
	CourseTitle string
	CourseWeek  int
	Amount      float64
	Currency    string
	PaymentID   string
	PaymentDate time.Time
	Reason      string
}

// EmailService dispatches transactional payment notifications. Callers
// treat every send as best-effort: failures are logged at the call site
// and never propagate into the payment state.
type EmailService interface {
	SendPaymentConfirmation(ctx context.Context, data PaymentEmailData) error
	SendPaymentCancellation(ctx context.Context, data PaymentEmailData) error
	SendSessionExpired(ctx context.Context, data PaymentEmailData) error
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2e7d32;">Payment Confirmed 🐾</h2>
  <p>Hi {{.UserName}},</p>
  <p>Your enrollment in <strong>{{.CourseTitle}}</strong> (Week {{.CourseWeek}}) is confirmed.</p>
  <table style="border-collapse: collapse; width: 100%;">
    <tr><td style="padding: 6px 0;">Amount</td><td>{{.Currency}} {{printf "%.2f" .Amount}}</td></tr>
    <tr><td style="padding: 6px 0;">Payment reference</td><td>{{.PaymentID}}</td></tr>
    <tr><td style="padding: 6px 0;">Date</td><td>{{.PaymentDate.Format "02 Jan 2006 15:04"}}</td></tr>
  </table>
  <p>Happy training!<br/>The PawPerfection Team</p>
</div>`))

var cancellationTmpl = template.Must(template.New("cancellation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #c62828;">Payment Not Completed</h2>
  <p>Hi {{.UserName}},</p>
  <p>Your payment for <strong>{{.CourseTitle}}</strong> (Week {{.CourseWeek}}) was not completed.</p>
  <p>Reason: {{.Reason}}</p>
  <p>You can retry the purchase from your account at any time.</p>
  <p>The PawPerfection Team</p>
</div>`))

var sessionExpiredTmpl = template.Must(template.New("expired").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #ef6c00;">Checkout Session Expired</h2>
  <p>Hi {{.UserName}},</p>
  <p>Your checkout session for <strong>{{.CourseTitle}}</strong> (Week {{.CourseWeek}}) expired before the payment was completed.</p>
  <p>No money was taken. Start a new checkout whenever you are ready.</p>
  <p>The PawPerfection Team</p>
</div>`))

type smtpEmailService struct {
	sender sender.EmailSender
	logger *zap.Logger
}

func NewEmailService(s sender.EmailSender, logger *zap.Logger) EmailService {
	return &smtpEmailService{sender: s, logger: logger}
}

func (s *smtpEmailService) SendPaymentConfirmation(ctx context.Context, data PaymentEmailData) error {
	subject := fmt.Sprintf("Payment Confirmed - %s | PawPerfection", data.CourseTitle)
	return s.send(ctx, confirmationTmpl, subject, data)
}

func (s *smtpEmailService) SendPaymentCancellation(ctx context.Context, data PaymentEmailData) error {
	subject := fmt.Sprintf("Payment Update - %s | PawPerfection", data.CourseTitle)
	return s.send(ctx, cancellationTmpl, subject, data)
}

func (s *smtpEmailService) SendSessionExpired(ctx context.Context, data PaymentEmailData) error {
	return s.send(ctx, sessionExpiredTmpl, "Session Expired - PawPerfection", data)
}

func (s *smtpEmailService) send(ctx context.Context, tmpl *template.Template, subject string, data PaymentEmailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render email template: %w", err)
	}

	result, err := s.sender.SendEmail(ctx, data.UserEmail, subject, body.String())
	if err != nil {
		return err
	}
	s.logger.Info("Email dispatched",
		zap.String("to", data.UserEmail),
		zap.String("subject", subject),
		zap.String("message_id", result.MessageID),
	)
	return nil
}

// noopEmailService is used when SMTP is not configured; sends are logged
// and dropped.
type noopEmailService struct {
	logger *zap.Logger
}

func NewNoopEmailService(logger *zap.Logger) EmailService {
	return &noopEmailService{logger: logger}
}

func (s *noopEmailService) SendPaymentConfirmation(ctx context.Context, data PaymentEmailData) error {
	s.logger.Warn("Email delivery disabled, dropping confirmation email", zap.String("to", data.UserEmail))
	return nil
}

func (s *noopEmailService) SendPaymentCancellation(ctx context.Context, data PaymentEmailData) error {
	s.logger.Warn("Email delivery disabled, dropping cancellation email", zap.String("to", data.UserEmail))
	return nil
}

func (s *noopEmailService) SendSessionExpired(ctx context.Context, data PaymentEmailData) error {
	s.logger.Warn("Email delivery disabled, dropping session expired email", zap.String("to", data.UserEmail))
	return nil
}
