package email

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/dukerupert/shopery/internal/domain"
)

// Service renders notification templates and hands the result to a Sender.
type Service struct {
	sender      Sender
	fromAddress string
	fromName    string
	templates   map[string]*template.Template
}

// NewService creates a new email service with the embedded templates.
func NewService(sender Sender, fromAddress, fromName string) (*Service, error) {
	tmpl, err := loadTemplates(templateFS)
	if err != nil {
		return nil, err
	}
	return &Service{
		sender:      sender,
		fromAddress: fromAddress,
		fromName:    fromName,
		templates:   tmpl,
	}, nil
}

// Deliver renders n and sends it. It returns the provider's message ID.
func (s *Service) Deliver(ctx context.Context, n domain.Notification) (string, error) {
	if strings.TrimSpace(n.To) == "" {
		return "", ErrInvalidToAddress
	}

	subject, htmlBody, err := s.Render(n.Template, n.Context)
	if err != nil {
		return "", err
	}

	msg := &Email{
		To:       []string{n.To},
		From:     s.from(),
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: generatePlainText(htmlBody),
	}

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to send %s email: %w", n.Template, err)
	}
	return id, nil
}

// Render returns the subject line and HTML body of a template.
func (s *Service) Render(name string, data map[string]any) (string, string, error) {
	t, ok := s.templates[name]
	if !ok {
		return "", "", ErrTemplateNotFound(name)
	}

	var subject bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", data); err != nil {
		return "", "", fmt.Errorf("failed to execute subject of %s: %w", name, err)
	}
	var body bytes.Buffer
	if err := t.ExecuteTemplate(&body, "email_layout", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return html.UnescapeString(strings.TrimSpace(subject.String())), body.String(), nil
}

func (s *Service) from() string {
	if s.fromName == "" {
		return s.fromAddress
	}
	return fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
}

// generatePlainText creates a simple plain text version from HTML
func generatePlainText(html string) string {
	text := html

	text = strings.ReplaceAll(text, "<br>", "\n")
	text = strings.ReplaceAll(text, "<br/>", "\n")
	text = strings.ReplaceAll(text, "<br />", "\n")
	text = strings.ReplaceAll(text, "</p>", "\n\n")
	text = strings.ReplaceAll(text, "</div>", "\n")
	text = strings.ReplaceAll(text, "</tr>", "\n")
	text = strings.ReplaceAll(text, "</td>", " ")
	text = strings.ReplaceAll(text, "</h1>", "\n\n")
	text = strings.ReplaceAll(text, "</h2>", "\n\n")
	text = strings.ReplaceAll(text, "</h3>", "\n\n")

	for strings.Contains(text, "<") && strings.Contains(text, ">") {
		start := strings.Index(text, "<")
		end := strings.Index(text, ">")
		if start >= 0 && end > start {
			text = text[:start] + text[end+1:]
		} else {
			break
		}
	}

	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#34;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
