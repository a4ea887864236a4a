// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/ricecart/internal/config"
)

// Message is a contact-form submission
type Message struct {
	Name  string
	Email string
	Body  string
}

// Service delivers contact-form messages through an email-delivery HTTP
// API. The web storefront sends these straight from the client through a
// third-party mail service; this client does the same.
type Service struct {
	config     *config.Config
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewService creates a new contact mail service
func NewService(cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// SendContactMessage delivers a contact-form message to the store's inbox
func (s *Service) SendContactMessage(ctx context.Context, msg *Message) error {
	if msg.Name == "" || msg.Email == "" || msg.Body == "" {
		return fmt.Errorf("name, email and message are all required")
	}
	if s.config.Contact.ToEmail == "" {
		return fmt.Errorf("contact destination not configured")
	}

	var html bytes.Buffer
	if err := contactTemplate.Execute(&html, msg); err != nil {
		return fmt.Errorf("failed to render message: %w", err)
	}

	subject := fmt.Sprintf("Contact form: %s", msg.Name)

	switch s.config.Contact.Provider {
	case "resend":
		return s.sendResend(ctx, subject, html.String(), msg.Email)
	case "sendgrid":
		return s.sendSendGrid(ctx, subject, html.String(), msg.Email)
	default:
		return fmt.Errorf("unknown contact provider: %s", s.config.Contact.Provider)
	}
}

// resendRequest is the Resend API request body
type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// sendResend sends the message using the Resend API
func (s *Service) sendResend(ctx context.Context, subject, html, replyTo string) error {
	if s.config.Contact.APIKey == "" {
		return fmt.Errorf("Resend API key not configured")
	}

	req := resendRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.Contact.FromName, s.config.Contact.FromEmail),
		To:      []string{s.config.Contact.ToEmail},
		Subject: subject,
		HTML:    html,
		ReplyTo: replyTo,
	}
	return s.post(ctx, "https://api.resend.com/emails", "Bearer "+s.config.Contact.APIKey, req)
}

// sendGridRequest is the SendGrid API request body
type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridEmail             `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
	ReplyTo          *sendGridEmail            `json:"reply_to,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridEmail `json:"to"`
}

type sendGridEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// sendSendGrid sends the message using the SendGrid API
func (s *Service) sendSendGrid(ctx context.Context, subject, html, replyTo string) error {
	if s.config.Contact.APIKey == "" {
		return fmt.Errorf("SendGrid API key not configured")
	}

	req := sendGridRequest{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridEmail{{Email: s.config.Contact.ToEmail}}},
		},
		From: sendGridEmail{
			Email: s.config.Contact.FromEmail,
			Name:  s.config.Contact.FromName,
		},
		Subject: subject,
		Content: []sendGridContent{{Type: "text/html", Value: html}},
		ReplyTo: &sendGridEmail{Email: replyTo},
	}
	return s.post(ctx, "https://api.sendgrid.com/v3/mail/send", "Bearer "+s.config.Contact.APIKey, req)
}

// post sends one JSON request to a mail provider
func (s *Service) post(ctx context.Context, url, authorization string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach mail provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var respBody bytes.Buffer
		respBody.ReadFrom(resp.Body)
		s.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   respBody.String(),
		}).Warn("mail provider rejected message")
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}

var contactTemplate = template.Must(template.New("contact").Parse(`
<h2>Contact form message</h2>
<p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
<p>{{.Body}}</p>
`))
