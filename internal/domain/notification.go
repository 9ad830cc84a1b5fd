package domain

import "context"

// Notification templates.
const (
	TemplateOrderConfirmation  = "order_confirmation"
	TemplateOrderStatusChanged = "order_status_changed"
	TemplateOrderCancelled     = "order_cancelled"
	TemplateWelcome            = "welcome"
	TemplateEmailVerification  = "email_verification"
	TemplatePasswordReset      = "password_reset"
)

// Notification is a request to deliver templateName to an address.
type Notification struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Context  map[string]any `json:"context"`
}

// Notifier accepts notifications for asynchronous delivery. Callers treat
// errors as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
