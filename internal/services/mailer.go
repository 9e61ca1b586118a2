package services

import (
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/config"
)

type MailerInterface interface {
	SendOrderSummary(order *entities.Order, to string) error
}

// SMTPMailer delivers the order summary over SMTP. One attempt per call, no
// retry, no queue.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) MailerInterface {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) SendOrderSummary(order *entities.Order, to string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Order Details - %s", order.OrderNumber))
	msg.SetBody("text/plain", FormatOrderSummary(order))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// FormatOrderSummary renders the fixed plain-text template with every order
// field. Only status_timestamp and status_employer fall back to N/A when
// unset; Status and the free-text fields print raw, per the template contract.
func FormatOrderSummary(order *entities.Order) string {
	return fmt.Sprintf(`
Order Number: %s
Date: %s
Customer Name: %s
Phone: %s
Email: %s
Description: %s
Employer Name: %s
Manufacturer/Supplier: %s
Selector: %s
Status: %s
Status Timestamp: %s
Status Employer: %s
`,
		order.OrderNumber,
		order.OrderDate.Format(time.RFC3339),
		order.CustomerName.String,
		order.Phone.String,
		order.Email.String,
		order.Description.String,
		order.EmployerName.String,
		order.ManufacturerSupplier.String,
		order.Selector.String,
		order.Status.String,
		timeOrNA(order.StatusTimestamp),
		stringOrNA(order.StatusEmployer),
	)
}

func timeOrNA(t null.Time) string {
	if !t.Valid {
		return "N/A"
	}
	return t.Time.Format(time.RFC3339)
}

func stringOrNA(s null.String) string {
	if !s.Valid || s.String == "" {
		return "N/A"
	}
	return s.String
}

// logMailer writes the summary to the log instead of dialing out. Used when
// no SMTP host is configured, and in tests.
type logMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) MailerInterface {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendOrderSummary(order *entities.Order, to string) error {
	m.logger.Info("mail delivery simulated",
		zap.String("to", to),
		zap.String("order_number", order.OrderNumber),
		zap.String("body", FormatOrderSummary(order)),
	)
	return nil
}
