// Package service holds the application services: each one owns the
// business rules for a slice of the domain and talks to repositories,
// never to the database directly.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"inkwell/internal/auth"
	"inkwell/internal/mailer"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/session"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// Actor identifies who is performing an operation. Anonymous requests
// carry Authenticated=false, which lets services order their checks
// (missing resource before missing login before wrong owner).
type Actor struct {
	ID            uint
	Authenticated bool
}

type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	sessions session.Store
	tokens   *auth.ResetTokenSigner
	notifier mailer.Notifier
	baseURL  string
	logger   *slog.Logger
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	sessions session.Store,
	tokens *auth.ResetTokenSigner,
	notifier mailer.Notifier,
	baseURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
		tokens:   tokens,
		notifier: notifier,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Register creates a new account. Username and email must both be
// unique; the pre-checks give a friendly message and the database
// unique indexes catch the race where two registrations interleave.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	ctx, span := observability.NewSpan(ctx, "auth.register")
	defer span.End()

	err := validation.Validate(map[string]string{
		"username": in.Username,
		"email":    in.Email,
		"password": in.Password,
	}, validation.RegisterRules())
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already taken")
	}

	existing, err = s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already registered")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		ProfileImage: models.DefaultProfileImage,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		observability.RecordErrorInContext(ctx, err)
		return nil, err
	}

	observability.AddTraceAttributesToContext(ctx, attribute.Int("user.id", int(user.ID)))
	observability.RegistrationsTotal.Inc()
	s.logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// Login verifies the credentials and opens a session. Unknown
// username and wrong password produce the same error, so the response
// never reveals whether an account exists.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, in.Password) {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", models.NewInvalidCredentialsError()
	}

	sessionID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}

	observability.LoginsTotal.WithLabelValues("success").Inc()
	return user, sessionID, nil
}

// Logout destroys the session. Destroying an already-dead session is
// not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sessionID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RequestPasswordReset issues a reset token and sends the link when
// the email belongs to an account. The outcome is identical either
// way, again to avoid account enumeration.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		// Deliberately indistinguishable from the success path.
		observability.PasswordResetsTotal.WithLabelValues("requested_unknown").Inc()
		return nil
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.NewInternalError(err)
	}

	resetURL := fmt.Sprintf("%s/reset_password/%s", s.baseURL, token)
	if err := s.notifier.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return models.NewInternalError(err)
	}

	observability.PasswordResetsTotal.WithLabelValues("requested").Inc()
	return nil
}

// ResetPassword redeems the token and replaces the user's password.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) (*models.User, error) {
	err := validation.Validate(map[string]string{
		"password": in.Password,
	}, validation.ResetPasswordRules())
	if err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, models.NewValidationError("Passwords do not match")
	}

	userID, err := s.tokens.Redeem(in.Token, auth.ResetTokenMaxAge)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, models.NewExpiredTokenError()
		}
		return nil, models.NewInvalidTokenError()
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	observability.PasswordResetsTotal.WithLabelValues("completed").Inc()
	s.logger.InfoContext(ctx, "password reset completed", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}
