package service

import (
	"context"

	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// EmailVerificationService confirms account emails with emailed one-time
// codes.
type EmailVerificationService interface {
	// SendCode issues a new code to user. It is not throttled; Register calls
	// it once per account.
	SendCode(ctx context.Context, user *domain.User) error

	// Verify checks code against the latest unused code for email and marks
	// the address verified. Unknown emails and wrong codes both yield
	// ErrInvalidCode.
	Verify(ctx context.Context, email, code string) error

	// Resend issues a new code unless one was sent within the resend
	// interval. Unknown emails succeed silently.
	Resend(ctx context.Context, email string) error
}

type emailVerificationService struct {
	codeIssuer
}

func NewEmailVerificationService(deps Deps, cfg CodeConfig) EmailVerificationService {
	return &emailVerificationService{codeIssuer: newCodeIssuer(deps, cfg)}
}

func (s *emailVerificationService) SendCode(ctx context.Context, user *domain.User) error {
	return s.send(ctx, user.ID, user.Email, user.FirstName, "email_verification.send")
}

func (s *emailVerificationService) send(ctx context.Context, userID int64, email, firstName, op string) error {
	code, hash, err := s.mint(op)
	if err != nil {
		return err
	}
	_, err = s.Store.CreateEmailVerification(ctx, repository.CreateCodeParams{
		UserID:    userID,
		CodeHash:  hash,
		ExpiresAt: s.now().Add(s.cfg.VerificationTTL),
	})
	if err != nil {
		return fail(err, nil, op)
	}

	s.notify(ctx, domain.Notification{
		To:       email,
		Template: domain.TemplateEmailVerification,
		Context: map[string]any{
			"firstName":        firstName,
			"code":             code,
			"expiresInMinutes": minutes(s.cfg.VerificationTTL),
		},
	})
	return nil
}

func (s *emailVerificationService) Verify(ctx context.Context, email, code string) error {
	const op = "email_verification.verify"

	user, err := lookupUser(ctx, s.Store, email)
	if err != nil {
		return fail(err, domain.ErrInvalidCode, op)
	}
	if user.EmailVerified {
		return domain.WithOp(domain.ErrEmailAlreadyVerified, op)
	}

	latest, err := s.Store.GetLatestEmailVerification(ctx, user.ID)
	if err := s.check(latest, err, code, op); err != nil {
		return err
	}

	err = s.Store.ExecTx(ctx, func(q repository.Querier) error {
		n, err := q.MarkEmailVerificationUsed(ctx, latest.ID)
		if err := consumedCode(n, err, op); err != nil {
			return err
		}
		if err := q.MarkUserEmailVerified(ctx, user.ID); err != nil {
			return fail(err, nil, op)
		}
		return nil
	})
	if err != nil {
		return keepDomain(err, op)
	}

	s.log(ctx).Info().Str("user_id", user.PublicID.String()).Msg("email verified")
	s.notify(ctx, domain.Notification{
		To:       user.Email,
		Template: domain.TemplateWelcome,
		Context:  map[string]any{"firstName": user.FirstName},
	})
	return nil
}

func (s *emailVerificationService) Resend(ctx context.Context, email string) error {
	const op = "email_verification.resend"

	user, err := lookupUser(ctx, s.Store, email)
	if repository.IsNotFound(err) {
		s.log(ctx).Debug().Msg("verification resend for unknown email")
		return nil
	}
	if err != nil {
		return fail(err, nil, op)
	}
	if user.EmailVerified {
		return domain.WithOp(domain.ErrEmailAlreadyVerified, op)
	}

	latest, err := s.Store.GetLatestEmailVerification(ctx, user.ID)
	if err := s.throttle(latest, err, op); err != nil {
		return err
	}
	return s.send(ctx, user.ID, user.Email, user.FirstName, op)
}
