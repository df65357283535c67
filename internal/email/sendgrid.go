package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/classdesk/classdesk-be/internal/services"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridService delivers mail through the SendGrid v3 API.
type SendgridService struct {
	key     string
	from    *sgmail.Email
	timeout time.Duration
}

var _ Service = (*SendgridService)(nil)

// NewSendgridService creates a SendGrid-backed mail service.
func NewSendgridService(key, fromEmail, fromName string, timeout time.Duration) *SendgridService {
	return &SendgridService{
		key:     key,
		from:    sgmail.NewEmail(fromName, fromEmail),
		timeout: timeout,
	}
}

// Send delivers one plain-text message. A rejected or timed-out request is
// reported as a delivery error; the caller decides whether it matters.
func (s *SendgridService) Send(ctx context.Context, to, toName, subject, body string) error {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail(toName, to))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %v", services.ErrDelivery, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d: %s", services.ErrDelivery, res.StatusCode, res.Body)
	}
	return nil
}
