package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sgHost     = "https://api.sendgrid.com"
	sgEndpoint = "/v3/mail/send"
)

type sendgridSender struct {
	key  string
	from *sgmail.Email
}

var _ Sender = (*sendgridSender)(nil)

// NewSendgridSender builds the production sender.
func NewSendgridSender(apiKey, fromName, fromAddr string) Sender {
	return &sendgridSender{
		key:  apiKey,
		from: sgmail.NewEmail(fromName, fromAddr),
	}
}

func (s *sendgridSender) Send(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.TextBody))

	req := sendgrid.GetRequest(s.key, sgEndpoint, sgHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sending %s email: %w", msg.Kind, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending %s email: status %d: %s", msg.Kind, res.StatusCode, res.Body)
	}
	return nil
}
