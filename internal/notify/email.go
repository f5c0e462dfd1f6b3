package notify

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// EmailNotifier delivers alerts over SMTP
type EmailNotifier struct {
	host     string
	port     string
	username string
	password string
	from     string
	to       string
	log      *logrus.Logger
}

// NewEmailNotifier creates an SMTP-backed alert channel
func NewEmailNotifier(host, port, username, password, from, to string, log *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
		log:      log,
	}
}

// Send delivers a single alert email
func (n *EmailNotifier) Send(title, body string) error {
	e := email.NewEmail()
	e.From = n.from
	e.To = []string{n.to}
	e.Subject = title
	e.Text = []byte(body + "\n\nBest regards,\nDebtwise")

	addr := fmt.Sprintf("%s:%s", n.host, n.port)
	auth := smtp.PlainAuth("", n.username, n.password, n.host)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.log.Infof("Email sent to %s: %s", n.to, title)
	return nil
}
