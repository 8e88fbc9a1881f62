package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coinacademia/affiliate-api/internal/domain/entity"
	"github.com/coinacademia/affiliate-api/internal/domain/repository"
	"github.com/coinacademia/affiliate-api/pkg/helpers"
	"github.com/coinacademia/affiliate-api/pkg/mailer"
)

const (
	tokenBytes    = 32
	resetTokenTTL = time.Hour
)

// AuthService orchestrates registration, login, OAuth account linking,
// email verification, and password reset.
type AuthService struct {
	Repo        repository.UserRepository
	Affiliates  *AffiliateService
	JWT         *helpers.JWTManager
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	AppName     string
	FrontendURL string
	MailEnabled bool
}

func NewAuthService(repo repository.UserRepository, affiliates *AffiliateService, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger, appName, frontendURL string, mailEnabled bool) *AuthService {
	return &AuthService{
		Repo:        repo,
		Affiliates:  affiliates,
		JWT:         jwt,
		Pub:         pub,
		Logger:      logger,
		AppName:     appName,
		FrontendURL: frontendURL,
		MailEnabled: mailEnabled,
	}
}

// PublicUser is the profile slice safe to return to callers. Password
// hashes and verification/reset tokens never leave the service.
type PublicUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username,omitempty"`
	Name          string    `json:"name,omitempty"`
	AvatarURL     string    `json:"avatarUrl,omitempty"`
	AffiliateCode string    `json:"affiliateCode"`
	ReferredBy    string    `json:"referredBy,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

func publicUser(u *entity.User) *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Name:          u.Name,
		AvatarURL:     u.AvatarURL,
		AffiliateCode: u.AffiliateCode,
		ReferredBy:    u.ReferredBy,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// AuthResult is a freshly issued token plus the owning profile.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *PublicUser
}

type RegisterInput struct {
	Email      string
	Password   string
	Username   string
	Name       string
	ReferredBy string
}

// Register creates an account, allocates its affiliate code, links the
// referrer best-effort, and issues a bearer token. A failed verification
// email never fails the registration.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if in.Username != "" {
		if _, err := s.Repo.GetByIdentifier(ctx, in.Username); err == nil {
			return nil, ErrDuplicateAccount
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	code, err := s.Affiliates.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}
	verifyToken, err := helpers.RandomToken(tokenBytes)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:         in.Email,
		Username:      in.Username,
		PasswordHash:  hash,
		Name:          in.Name,
		AffiliateCode: code,
		ReferredBy:    in.ReferredBy,
		VerifyToken:   verifyToken,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}

	// Best-effort referral linking: an unknown referrer code is not an
	// error for the new registration, and the new user is never rolled
	// back on failure here.
	if in.ReferredBy != "" {
		if err := s.Repo.AppendReferral(ctx, in.ReferredBy, u.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.Logger.WithField("referred_by", in.ReferredBy).Debug("referrer code not found, link dropped")
			} else {
				s.Logger.WithError(err).WithField("referred_by", in.ReferredBy).Warn("referral link failed")
			}
		}
	}

	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateVerifyEmail,
		Data: map[string]any{
			"AppName":   s.AppName,
			"Name":      u.Name,
			"VerifyURL": s.FrontendURL + "/verify-email.html?token=" + verifyToken,
		},
	})

	return s.issue(u)
}

// Login authenticates by email or username. All failure paths share one
// generic error so callers cannot probe which field was wrong.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// OAuthProfile is the provider payload after a successful callback exchange.
type OAuthProfile struct {
	GoogleID  string
	Email     string
	Name      string
	AvatarURL string
}

// OAuthLogin looks up the local account for a provider identity, creating
// one from the profile on first sight. OAuth accounts have no password and
// are treated as verified. A profile without a provider id is rejected:
// provider error payloads decode to zero values and must never mint an
// account.
func (s *AuthService) OAuthLogin(ctx context.Context, p OAuthProfile) (*AuthResult, error) {
	if p.GoogleID == "" || p.Email == "" {
		return nil, ErrIncompleteProfile
	}
	u, err := s.Repo.GetByGoogleID(ctx, p.GoogleID)
	if err == nil {
		return s.issue(u)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	code, err := s.Affiliates.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}
	u = &entity.User{
		Email:         p.Email,
		Name:          p.Name,
		AvatarURL:     p.AvatarURL,
		GoogleID:      p.GoogleID,
		AffiliateCode: code,
		EmailVerified: true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Same email already registered locally; do not silently
			// merge accounts.
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "provider": "google"}).Info("oauth account created")
	return s.issue(u)
}

// RequestPasswordReset stores a single-use token and mails a reset link.
// The caller always receives the same answer whether or not the email is
// registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	token, err := helpers.RandomToken(tokenBytes)
	if err != nil {
		return err
	}
	if err := s.Repo.SetResetToken(ctx, u.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateResetPassword,
		Data: map[string]any{
			"AppName":  s.AppName,
			"Name":     u.Name,
			"ResetURL": s.FrontendURL + "/reset-password.html?token=" + token,
		},
	})
	return nil
}

// ResetPassword consumes a reset token. The conditional update makes the
// token single-use: a second call with the same token finds no row.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.ConsumeResetToken(ctx, token, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if err := s.Repo.ConsumeVerifyToken(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.Generate(u.ID, u.Name, u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: publicUser(u)}, nil
}

func (s *AuthService) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("failed to enqueue email job")
	}
}
