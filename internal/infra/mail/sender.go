package mail

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

type EmailSender struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

func NewEmailSender(host string, port int, user, pass, from string, log *logger.Logger) *EmailSender {
	return &EmailSender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		log:    log.Child("mail", nil),
	}
}

// SendNewsletterWelcome confirms a newsletter signup.
func (s *EmailSender) SendNewsletterWelcome(to, name string) error {
	subject := "Welcome to the Agent Flow newsletter"
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + name
	}
	body := fmt.Sprintf(`%s,

Thanks for subscribing to the Agent Flow newsletter. Expect practical AI
automation guides, case studies, and product updates — roughly twice a month.

— The Agent Flow team`, greeting)

	return s.send(to, subject, body)
}

// SendLeadNotification tells the sales inbox a new lead arrived.
func (s *EmailSender) SendLeadNotification(to string, lead *entity.Lead) error {
	subject := fmt.Sprintf("New lead: %s", lead.Name)
	body := fmt.Sprintf(`New lead captured from %s

Name:     %s
Email:    %s
Phone:    %s
Company:  %s
Field:    %s
Size:     %s
Challenges: %s

Message:
%s`,
		lead.Source, lead.Name, lead.Email, lead.Phone, lead.Company,
		lead.BusinessField, lead.CompanySize, strings.Join(lead.Challenges, ", "),
		lead.Message,
	)

	return s.send(to, subject, body)
}

func (s *EmailSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("send failed", err, map[string]any{"to": to, "subject": subject})
		return err
	}
	s.log.Debug("email sent", map[string]any{"to": to, "subject": subject})
	return nil
}
