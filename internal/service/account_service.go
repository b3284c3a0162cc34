package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/internal/mailer"
	"github.com/caredesk/caredesk-api/internal/repo/postgres"
	"github.com/caredesk/caredesk-api/pkg/auth"
	"github.com/caredesk/caredesk-api/pkg/config"
	"github.com/caredesk/caredesk-api/pkg/events"
	"github.com/caredesk/caredesk-api/pkg/logger"
)

type AccountService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)
	Activate(ctx context.Context, key string) (*domain.User, error)
	Authenticate(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	GetAccount(ctx context.Context, login string) (*domain.User, error)
	UpdateAccount(ctx context.Context, login string, patch *domain.AccountPatch) error
	ChangePassword(ctx context.Context, login, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	CompletePasswordReset(ctx context.Context, newPassword, key string) (*domain.User, error)

	// Admin user management
	CreateUser(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, login string, patch *domain.UserPatch) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	DeleteUser(ctx context.Context, login string) error
}

type accountService struct {
	userRepo postgres.UserRepository
	profiles ProfileService
	mailer   mailer.Service
	eventBus events.Publisher
	config   *config.Config
	newKey   func() string
}

func NewAccountService(
	userRepo postgres.UserRepository,
	profiles ProfileService,
	mailSvc mailer.Service,
	eventBus events.Publisher,
	cfg *config.Config,
) AccountService {
	return &accountService{
		userRepo: userRepo,
		profiles: profiles,
		mailer:   mailSvc,
		eventBus: eventBus,
		config:   cfg,
		newKey:   uuid.NewString,
	}
}

// Register creates a new account and runs the rest of the registration
// sequence: persist inactive with an activation key, immediately self-activate,
// provision the role-specific profile, then notify. The steps after persistence
// are not transactional: a provisioning failure leaves the activated account in
// place without a profile, and a mail failure never fails the registration.
func (s *accountService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := domain.CheckPasswordLength(req.Password); err != nil {
		return nil, err
	}

	// Fast-path existence checks; the unique indexes are the real guard.
	if existing, err := s.userRepo.FindByLogin(ctx, req.Login); err != nil {
		return nil, fmt.Errorf("failed to check existing login: %w", err)
	} else if existing != nil {
		return nil, domain.ErrLoginAlreadyUsed
	}
	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyUsed
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	activationKey := s.newKey()
	user, err := s.userRepo.Create(ctx, &domain.User{
		Login:         req.Login,
		Email:         req.Email,
		PasswordHash:  passwordHash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Activated:     false,
		ActivationKey: &activationKey,
		Authorities:   req.Authorities,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Eager self-activation: the account is confirmed by re-fetch and flipped
	// to active in the same call. The key-based /activate endpoint remains for
	// accounts created through paths that skip this step.
	if fetched, err := s.userRepo.FindByLogin(ctx, user.Login); err != nil {
		return nil, fmt.Errorf("failed to confirm created user: %w", err)
	} else if fetched != nil {
		if err := s.userRepo.Activate(ctx, fetched.ID); err != nil {
			return nil, fmt.Errorf("failed to activate user: %w", err)
		}
		user.Activated = true
		user.ActivationKey = nil
		logger.DebugContext(ctx, "Activated user", "login", user.Login)
	}

	kind, err := s.profiles.Provision(ctx, user)
	if err != nil {
		// Known consistency gap: the account stays persisted and activated
		// even when its profile could not be created.
		logger.ErrorContext(ctx, "Failed to provision profile", "error", err, "login", user.Login, "kind", kind.String())
	}

	if err := s.mailer.SendActivationEmail(user, s.buildActivationURL(activationKey)); err != nil {
		logger.ErrorContext(ctx, "Failed to send activation email", "error", err, "login", user.Login)
	}

	s.publish(ctx, events.AccountRegistered, events.AccountRegisteredEvent{
		UserID:       user.ID,
		Login:        user.Login,
		Email:        user.Email,
		Role:         user.PrimaryRole(),
		RegisteredAt: user.CreatedAt,
	})

	return user, nil
}

func (s *accountService) Activate(ctx context.Context, key string) (*domain.User, error) {
	user, err := s.userRepo.FindByActivationKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up activation key: %w", err)
	}
	if user == nil {
		return nil, domain.ErrActivationKeyNotFound
	}

	if err := s.userRepo.Activate(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	user.Activated = true
	user.ActivationKey = nil

	s.publish(ctx, events.AccountActivated, events.AccountActivatedEvent{
		UserID:      user.ID,
		Login:       user.Login,
		ActivatedAt: time.Now(),
	})

	return user, nil
}

func (s *accountService) Authenticate(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.FindByLogin(ctx, req.Login)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrBadCredentials
	}
	if !user.Activated {
		return nil, domain.ErrAccountNotActivated
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrBadCredentials
	}

	accessToken, err := auth.NewAccessToken(
		user.ID,
		user.Login,
		user.Email,
		user.PrimaryRole(),
		s.config.Auth.JWTSecret,
		s.config.Auth.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &domain.LoginResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.Auth.AccessTokenTTL.Seconds()),
		User:        user.ToUserInfo(),
	}, nil
}

func (s *accountService) GetAccount(ctx context.Context, login string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrAccountNotFound
	}
	return user, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, login string, patch *domain.AccountPatch) error {
	if patch.Email != nil {
		existing, err := s.userRepo.FindByEmail(ctx, *patch.Email)
		if err != nil {
			return fmt.Errorf("failed to check existing email: %w", err)
		}
		if existing != nil && existing.Login != login {
			return domain.ErrEmailAlreadyUsed
		}
	}

	updated, err := s.userRepo.UpdateAccount(ctx, login, patch)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if updated == nil {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ChangePassword replaces the caller's credential after validating the new
// password's length. The current password is accepted as-is and not checked
// against the stored hash; verification happens, if at all, at the boundary
// that authenticated the caller.
func (s *accountService) ChangePassword(ctx context.Context, login, currentPassword, newPassword string) error {
	if err := domain.CheckPasswordLength(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrAccountNotFound
	}

	passwordHash, err := argon2id.CreateHash(newPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash, false); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *accountService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.Activated {
		return "", domain.ErrEmailNotFound
	}

	resetKey := s.newKey()
	if err := s.userRepo.SetResetKey(ctx, user.ID, resetKey, time.Now()); err != nil {
		return "", fmt.Errorf("failed to store reset key: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(user, s.buildResetURL(resetKey)); err != nil {
		logger.ErrorContext(ctx, "Failed to send password reset email", "error", err, "login", user.Login)
	}

	s.publish(ctx, events.PasswordResetRequested, events.PasswordResetRequestedEvent{
		UserID:      user.ID,
		Email:       user.Email,
		RequestedAt: time.Now(),
	})

	return resetKey, nil
}

func (s *accountService) CompletePasswordReset(ctx context.Context, newPassword, key string) (*domain.User, error) {
	if err := domain.CheckPasswordLength(newPassword); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByResetKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset key: %w", err)
	}
	if user == nil {
		return nil, domain.ErrResetKeyNotFound
	}
	if user.ResetDate == nil || time.Since(*user.ResetDate) > s.config.Auth.ResetKeyTTL {
		return nil, domain.ErrResetKeyExpired
	}

	passwordHash, err := argon2id.CreateHash(newPassword, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash, true); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	user.ResetKey = nil
	user.ResetDate = nil

	s.publish(ctx, events.PasswordResetCompleted, events.PasswordResetCompletedEvent{
		UserID:      user.ID,
		CompletedAt: time.Now(),
	})

	return user, nil
}

// CreateUser is the admin path: the account is created already activated, with
// a random credential and a fresh reset key so the owner sets their own
// password through the reset flow. A creation mail carries the reset link.
func (s *accountService) CreateUser(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if existing, err := s.userRepo.FindByLogin(ctx, req.Login); err != nil {
		return nil, fmt.Errorf("failed to check existing login: %w", err)
	} else if existing != nil {
		return nil, domain.ErrLoginAlreadyUsed
	}
	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyUsed
	}

	passwordHash, err := argon2id.CreateHash(s.newKey(), argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	resetKey := s.newKey()
	now := time.Now()
	user, err := s.userRepo.Create(ctx, &domain.User{
		Login:        req.Login,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Activated:    true,
		ResetKey:     &resetKey,
		ResetDate:    &now,
		Authorities:  req.Authorities,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.mailer.SendCreationEmail(user, s.buildResetURL(resetKey)); err != nil {
		logger.ErrorContext(ctx, "Failed to send creation email", "error", err, "login", user.Login)
	}

	return user, nil
}

// UpdateUser is the admin-side account update. A new login or email is
// rejected when it already belongs to a different account.
func (s *accountService) UpdateUser(ctx context.Context, login string, patch *domain.UserPatch) (*domain.User, error) {
	login = strings.ToLower(login)
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if patch.Login != nil && *patch.Login != login {
		existing, err := s.userRepo.FindByLogin(ctx, *patch.Login)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing login: %w", err)
		}
		if existing != nil {
			return nil, domain.ErrLoginAlreadyUsed
		}
	}
	if patch.Email != nil {
		existing, err := s.userRepo.FindByEmail(ctx, *patch.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing email: %w", err)
		}
		if existing != nil && existing.Login != login {
			return nil, domain.ErrEmailAlreadyUsed
		}
	}

	updated, err := s.userRepo.UpdateUser(ctx, login, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if updated == nil {
		return nil, domain.ErrAccountNotFound
	}
	return updated, nil
}

func (s *accountService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *accountService) DeleteUser(ctx context.Context, login string) error {
	if err := s.userRepo.Delete(ctx, login); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.publish(ctx, events.AccountDeleted, events.AccountDeletedEvent{
		Login:     login,
		DeletedAt: time.Now(),
	})

	return nil
}

func (s *accountService) publish(ctx context.Context, subject string, event interface{}) {
	if err := s.eventBus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "error", err, "subject", subject)
	}
}

func (s *accountService) buildActivationURL(key string) string {
	return fmt.Sprintf("%s/activate?key=%s", s.config.Email.BaseURL, key)
}

func (s *accountService) buildResetURL(key string) string {
	return fmt.Sprintf("%s/reset-password/finish?key=%s", s.config.Email.BaseURL, key)
}
