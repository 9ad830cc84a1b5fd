package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/dukerupert/shopery/internal/auth"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

const (
	DefaultVerificationCodeTTL = 10 * time.Minute
	DefaultResetCodeTTL        = 15 * time.Minute
	DefaultCodeResendInterval  = time.Minute
)

// CodeConfig carries the hasher and lifetimes of emailed one-time codes.
// Zero durations use the defaults above.
type CodeConfig struct {
	Hasher          auth.Hasher
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	ResendInterval  time.Duration
}

func (c CodeConfig) withDefaults() CodeConfig {
	if c.VerificationTTL <= 0 {
		c.VerificationTTL = DefaultVerificationCodeTTL
	}
	if c.ResetTTL <= 0 {
		c.ResetTTL = DefaultResetCodeTTL
	}
	if c.ResendInterval <= 0 {
		c.ResendInterval = DefaultCodeResendInterval
	}
	return c
}

// codeIssuer mints codes and checks them against their stored hash.
type codeIssuer struct {
	Deps
	cfg     CodeConfig
	newCode func() (string, error)
}

func newCodeIssuer(deps Deps, cfg CodeConfig) codeIssuer {
	return codeIssuer{Deps: deps, cfg: cfg.withDefaults(), newCode: auth.NewCode}
}

// mint returns a fresh code and its hash.
func (c codeIssuer) mint(op string) (code, hash string, err error) {
	code, err = c.newCode()
	if err != nil {
		return "", "", domain.Internal(err, op, "failed to generate code")
	}
	hash, err = c.cfg.Hasher.HashCode(code)
	if err != nil {
		return "", "", domain.Internal(err, op, "failed to hash code")
	}
	return code, hash, nil
}

// throttle rejects a new code while the latest one is younger than the
// resend interval. A missing latest code never throttles.
func (c codeIssuer) throttle(latest repository.OneTimeCode, lookupErr error, op string) error {
	if lookupErr != nil {
		if repository.IsNotFound(lookupErr) {
			return nil
		}
		return fail(lookupErr, nil, op)
	}
	wait := c.cfg.ResendInterval - c.now().Sub(latest.CreatedAt)
	if wait <= 0 {
		return nil
	}
	return domain.Errorf(domain.ERATELIMIT, op,
		"Please wait %d seconds before requesting another code", int(math.Ceil(wait.Seconds())))
}

// check validates code against the latest unused row.
func (c codeIssuer) check(latest repository.OneTimeCode, lookupErr error, code, op string) error {
	if lookupErr != nil {
		return fail(lookupErr, domain.ErrInvalidCode, op)
	}
	if !c.now().Before(latest.ExpiresAt) {
		return domain.WithOp(domain.ErrCodeExpired, op)
	}
	if err := c.cfg.Hasher.Verify(code, latest.CodeHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return domain.WithOp(domain.ErrInvalidCode, op)
		}
		return domain.Internal(err, op, "failed to verify code")
	}
	return nil
}

// consumedCode turns a zero-row "mark used" into ErrInvalidCode: another request
// used the code first.
func consumedCode(n int64, err error, op string) error {
	if err != nil {
		return fail(err, nil, op)
	}
	if n == 0 {
		return domain.WithOp(domain.ErrInvalidCode, op)
	}
	return nil
}

func minutes(d time.Duration) int {
	return int(math.Ceil(d.Minutes()))
}

// lookupUser resolves an email for the code flows.
func lookupUser(ctx context.Context, q repository.Querier, email string) (repository.User, error) {
	return q.GetUserByEmail(ctx, NormalizeEmail(email))
}
