package service

import (
	"context"
	"errors"

	"github.com/dukerupert/shopery/internal/auth"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// PasswordResetService replaces a forgotten password using an emailed
// one-time code.
type PasswordResetService interface {
	// Request emails a reset code. Unknown or deactivated emails and requests
	// inside the resend interval also report success, sending nothing, so the
	// response never reveals whether an account exists.
	Request(ctx context.Context, email string) error

	// Reset sets a new password when code matches the latest unused reset
	// code for email, then signs the account out everywhere.
	Reset(ctx context.Context, params ResetPasswordParams) error
}

type ResetPasswordParams struct {
	Email    string
	Code     string
	Password string
}

type passwordResetService struct {
	codeIssuer
}

func NewPasswordResetService(deps Deps, cfg CodeConfig) PasswordResetService {
	return &passwordResetService{codeIssuer: newCodeIssuer(deps, cfg)}
}

func (s *passwordResetService) Request(ctx context.Context, email string) error {
	const op = "password_reset.request"

	user, err := lookupUser(ctx, s.Store, email)
	if repository.IsNotFound(err) {
		s.log(ctx).Debug().Msg("password reset for unknown email")
		return nil
	}
	if err != nil {
		return fail(err, nil, op)
	}
	if !user.IsActive {
		s.log(ctx).Debug().Str("user_id", user.PublicID.String()).Msg("password reset for deactivated account")
		return nil
	}

	latest, err := s.Store.GetLatestPasswordReset(ctx, user.ID)
	if err := s.throttle(latest, err, op); err != nil {
		if domain.IsCode(err, domain.ERATELIMIT) {
			s.log(ctx).Debug().Str("user_id", user.PublicID.String()).Msg("password reset throttled")
			return nil
		}
		return err
	}

	code, hash, err := s.mint(op)
	if err != nil {
		return err
	}
	_, err = s.Store.CreatePasswordReset(ctx, repository.CreateCodeParams{
		UserID:    user.ID,
		CodeHash:  hash,
		ExpiresAt: s.now().Add(s.cfg.ResetTTL),
	})
	if err != nil {
		return fail(err, nil, op)
	}

	s.notify(ctx, domain.Notification{
		To:       user.Email,
		Template: domain.TemplatePasswordReset,
		Context: map[string]any{
			"firstName":        user.FirstName,
			"code":             code,
			"expiresInMinutes": minutes(s.cfg.ResetTTL),
		},
	})
	return nil
}

func (s *passwordResetService) Reset(ctx context.Context, params ResetPasswordParams) error {
	const op = "password_reset.reset"

	hash, err := s.cfg.Hasher.Hash(params.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return domain.NewValidationError(op, "password", err.Error())
	}
	if err != nil {
		return domain.Internal(err, op, "failed to hash password")
	}

	user, err := lookupUser(ctx, s.Store, params.Email)
	if err != nil {
		return fail(err, domain.ErrInvalidCode, op)
	}
	if !user.IsActive {
		return domain.WithOp(domain.ErrInvalidCode, op)
	}

	latest, err := s.Store.GetLatestPasswordReset(ctx, user.ID)
	if err := s.check(latest, err, params.Code, op); err != nil {
		return err
	}

	var revoked int64
	err = s.Store.ExecTx(ctx, func(q repository.Querier) error {
		n, err := q.MarkPasswordResetUsed(ctx, latest.ID)
		if err := consumedCode(n, err, op); err != nil {
			return err
		}
		if err := q.UpdateUserPassword(ctx, repository.UpdateUserPasswordParams{ID: user.ID, PasswordHash: hash}); err != nil {
			return fail(err, nil, op)
		}
		revoked, err = q.DeleteUserSessions(ctx, user.ID)
		if err != nil {
			return fail(err, nil, op)
		}
		return nil
	})
	if err != nil {
		return keepDomain(err, op)
	}

	s.log(ctx).Info().
		Str("user_id", user.PublicID.String()).
		Int64("sessions_revoked", revoked).
		Msg("password reset")
	return nil
}
