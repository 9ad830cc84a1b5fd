package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dukerupert/shopery/internal/auth"
	"github.com/dukerupert/shopery/internal/domain"
	"github.com/dukerupert/shopery/internal/repository"
)

// DefaultSessionTTL applies when UserConfig.SessionTTL is zero.
const DefaultSessionTTL = 30 * 24 * time.Hour

// UserService handles registration, login and opaque session tokens.
type UserService interface {
	// Register creates a customer account and a session. A non-empty
	// guestToken is merged into the new account's cart. The account starts
	// unverified and a verification code is emailed.
	Register(ctx context.Context, params RegisterParams, guestToken string) (*domain.AuthResult, error)

	// Login returns ErrInvalidCredentials for an unknown email or a wrong
	// password alike, and ErrAccountDeactivated for a disabled account.
	Login(ctx context.Context, email, password, guestToken string) (*domain.AuthResult, error)

	Logout(ctx context.Context, token string) error

	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)

	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*domain.User, error)
}

type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type UpdateProfileParams struct {
	FirstName string
	LastName  string
}

// UserConfig carries the knobs of the user service. Without Verification a
// new account gets the welcome email straight away.
type UserConfig struct {
	Hasher       auth.Hasher
	SessionTTL   time.Duration
	Verification EmailVerificationService
}

type userService struct {
	Deps
	cfg      UserConfig
	merger   CartMerger
	newToken func() (string, error)
}

func NewUserService(deps Deps, cfg UserConfig, merger CartMerger) UserService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &userService{Deps: deps, cfg: cfg, merger: merger, newToken: auth.NewToken}
}

// NormalizeEmail lower-cases and trims an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, params RegisterParams, guestToken string) (*domain.AuthResult, error) {
	const op = "user.register"

	email := NormalizeEmail(params.Email)
	hash, err := s.cfg.Hasher.Hash(params.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return nil, domain.NewValidationError(op, "password", err.Error())
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	var result *domain.AuthResult
	err = s.Store.ExecTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetUserByEmail(ctx, email); err == nil {
			return domain.WithOp(domain.ErrEmailTaken, op)
		} else if !repository.IsNotFound(err) {
			return fail(err, nil, op)
		}

		row, err := q.CreateUser(ctx, repository.CreateUserParams{
			Email:        email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(params.FirstName),
			LastName:     strings.TrimSpace(params.LastName),
			Role:         string(domain.RoleCustomer),
		})
		if _, unique := repository.IsUniqueViolation(err); unique {
			return domain.WithOp(domain.ErrEmailTaken, op)
		}
		if err != nil {
			return fail(err, nil, op)
		}

		result, err = s.startSession(ctx, q, row, op)
		return err
	})
	if err != nil {
		return nil, keepDomain(err, op)
	}

	s.Metrics.RecordSignup()
	s.log(ctx).Info().Str("user_id", result.User.PublicID.String()).Msg("user registered")

	s.merge(ctx, guestToken, result)
	s.greet(ctx, result.User)
	return result, nil
}

// greet starts email verification, or welcomes the user when verification
// is not configured. Failures do not undo the registration.
func (s *userService) greet(ctx context.Context, user *domain.User) {
	if s.cfg.Verification == nil {
		s.notify(ctx, domain.Notification{
			To:       user.Email,
			Template: domain.TemplateWelcome,
			Context:  map[string]any{"firstName": user.FirstName},
		})
		return
	}
	if err := s.cfg.Verification.SendCode(ctx, user); err != nil {
		s.log(ctx).Error().Err(err).Str("user_id", user.PublicID.String()).Msg("failed to send verification code")
	}
}

func (s *userService) Login(ctx context.Context, email, password, guestToken string) (*domain.AuthResult, error) {
	const op = "user.login"

	row, err := s.Store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		s.Metrics.RecordLogin(false)
		return nil, fail(err, domain.ErrInvalidCredentials, op)
	}
	if err := s.cfg.Hasher.Verify(password, row.PasswordHash); err != nil {
		s.Metrics.RecordLogin(false)
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.WithOp(domain.ErrInvalidCredentials, op)
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}
	if !row.IsActive {
		s.Metrics.RecordLogin(false)
		return nil, domain.WithOp(domain.ErrAccountDeactivated, op)
	}

	result, err := s.startSession(ctx, s.Store, row, op)
	if err != nil {
		return nil, err
	}
	s.Metrics.RecordLogin(true)

	s.merge(ctx, guestToken, result)
	return result, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	const op = "user.logout"
	if token == "" {
		return nil
	}
	if err := s.Store.DeleteSession(ctx, token); err != nil {
		return fail(err, nil, op)
	}
	return nil
}

func (s *userService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	const op = "user.authenticate"
	if token == "" {
		return nil, domain.WithOp(domain.ErrAuthRequired, op)
	}

	session, err := s.Store.GetSessionByToken(ctx, token)
	if err != nil {
		return nil, fail(err, domain.ErrAuthRequired, op)
	}
	if !s.now().Before(session.ExpiresAt) {
		if err := s.Store.DeleteSession(ctx, token); err != nil {
			s.log(ctx).Warn().Err(err).Msg("failed to delete expired session")
		}
		return nil, domain.WithOp(domain.ErrSessionExpired, op)
	}

	row, err := s.Store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fail(err, domain.ErrAuthRequired, op)
	}
	if !row.IsActive {
		return nil, domain.WithOp(domain.ErrAuthRequired, op)
	}
	return toUser(row), nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	row, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fail(err, domain.ErrUserNotFound, "user.get_profile")
	}
	return toUser(row), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*domain.User, error) {
	row, err := s.Store.UpdateUserProfile(ctx, repository.UpdateUserProfileParams{
		ID:        userID,
		FirstName: strings.TrimSpace(params.FirstName),
		LastName:  strings.TrimSpace(params.LastName),
	})
	if err != nil {
		return nil, fail(err, domain.ErrUserNotFound, "user.update_profile")
	}
	return toUser(row), nil
}

func (s *userService) startSession(ctx context.Context, q repository.Querier, row repository.User, op string) (*domain.AuthResult, error) {
	token, err := s.newToken()
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate session token")
	}
	session, err := q.CreateSession(ctx, repository.CreateSessionParams{
		Token:     token,
		UserID:    row.ID,
		ExpiresAt: s.now().Add(s.cfg.SessionTTL),
	})
	if err != nil {
		return nil, fail(err, nil, op)
	}
	return &domain.AuthResult{
		User:         toUser(row),
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// merge folds the guest cart into the new session's cart. A failed merge
// leaves the guest cart in place and flags it on the result.
func (s *userService) merge(ctx context.Context, guestToken string, result *domain.AuthResult) {
	if s.merger == nil || guestToken == "" {
		return
	}
	cart, ok := s.merger.MergeBestEffort(ctx, guestToken, result.User.ID)
	result.Cart = cart
	result.GuestCartRetained = !ok
}
