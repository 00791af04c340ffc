package notify

import (
	"bytes"
	"fmt"
	"text/template"

	gomail "gopkg.in/gomail.v2"
)

type Sender interface {
	Send(to []string, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to []string, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	d.SSL = s.cfg.Port == 465
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

var (
	orderPlacedTmpl = template.Must(template.New(EventOrderPlaced).Parse(
		`A new order #{{.OrderID}} has been placed.

Product: {{.ProductTitle}}
Quantity: {{.Quantity}}
Total: {{.TotalCost}}

Customer: {{.CustomerName}}
Mobile: {{.CustomerMobile}}
Address: {{.CustomerAddress}}
`))

	deliveryAssignedTmpl = template.Must(template.New(EventDeliveryAssigned).Parse(
		`Hello {{.DeliveryName}},

Order #{{.OrderID}} has been assigned to you.

Product: {{.ProductTitle}} x {{.Quantity}}
Deliver to: {{.CustomerName}}, {{.CustomerAddress}}
Mobile: {{.CustomerMobile}}
`))
)

func render(t *template.Template, ev Event) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, ev); err != nil {
		return "", err
	}
	return buf.String(), nil
}
