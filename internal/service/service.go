// Package service implements the storefront business operations on top of
// repository.Store. Services return *domain.Error values; storage errors
// never leave this package unwrapped.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/pagination"
	"github.com/dukerupert/shopery/internal/repository"
	"github.com/dukerupert/shopery/internal/telemetry"
)

// Deps are the collaborators shared by every service.
type Deps struct {
	Store    repository.Store
	Notifier domain.Notifier
	Metrics  *telemetry.BusinessMetrics
	Logger   zerolog.Logger

	// Now defaults to time.Now.
	Now func() time.Time

	// Guest cart lifetimes; zero uses domain.GuestCartTTL and
	// domain.GuestCartActiveTTL.
	GuestCartTTL       time.Duration
	GuestCartActiveTTL time.Duration
}

func (d Deps) guestCartTTL() time.Duration {
	if d.GuestCartTTL > 0 {
		return d.GuestCartTTL
	}
	return domain.GuestCartTTL
}

func (d Deps) guestCartActiveTTL() time.Duration {
	if d.GuestCartActiveTTL > 0 {
		return d.GuestCartActiveTTL
	}
	return domain.GuestCartActiveTTL
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// log prefers the request-scoped logger stored in ctx by the middleware.
func (d Deps) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &d.Logger
}

// notify hands n to the notifier. Failures are logged, counted and captured,
// never returned.
func (d Deps) notify(ctx context.Context, n domain.Notification) {
	if d.Notifier == nil || n.To == "" {
		return
	}
	err := d.Notifier.Notify(ctx, n)
	d.Metrics.RecordNotification(n.Template, err, "publish")
	if err != nil {
		d.log(ctx).Error().Err(err).
			Str("template", n.Template).
			Str("to", n.To).
			Msg("failed to publish notification")
		telemetry.CaptureErrorFromContext(ctx, err, map[string]any{"template": n.Template})
	}
}

// fail maps a repository error to a domain error: no-rows becomes sentinel
// (tagged with op), anything else is internal.
func fail(err error, sentinel *domain.Error, op string) error {
	if sentinel != nil && repository.IsNotFound(err) {
		return domain.WithOp(sentinel, op)
	}
	return domain.Internal(err, op, "storage operation failed")
}

// keepDomain passes domain errors through and wraps anything else as internal.
// Used on errors returned from ExecTx callbacks.
func keepDomain(err error, op string) error {
	var de *domain.Error
	var ve *domain.ValidationError
	if errors.As(err, &de) || errors.As(err, &ve) {
		return err
	}
	return domain.Internal(err, op, "storage operation failed")
}

// cursorParams converts a client page request into repository arguments.
func cursorParams(p pagination.Params) (repository.CursorParams, pagination.Params, error) {
	p = p.Normalize()
	c, err := p.Decoded()
	if err != nil {
		return repository.CursorParams{}, p, err
	}
	return repository.CursorParams{
		After: c,
		Order: p.SortOrder,
		Limit: int32(p.FetchLimit()),
	}, p, nil
}

func validQuantity(q int32) bool {
	return q > 0
}
