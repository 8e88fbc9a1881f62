package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinacademia/affiliate-api/internal/application"
	"github.com/coinacademia/affiliate-api/internal/domain/repository"
	"github.com/coinacademia/affiliate-api/pkg/helpers"
)

func newTestAuth(repo *memRepo) *application.AuthService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	affiliates := application.NewAffiliateService(repo, logger)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return application.NewAuthService(repo, affiliates, jwt, nil, logger, "testapp", "http://localhost:5500", false)
}

func TestAuthService_Register(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	res, err := svc.Register(ctx, application.RegisterInput{
		Email:    "alice@example.com",
		Password: "password123",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Len(t, res.User.AffiliateCode, 8)

	// The password hash never leaves the service.
	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, application.RegisterInput{Email: "dup@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, application.RegisterInput{Email: "dup@example.com", Password: "otherpassword"})
	assert.ErrorIs(t, err, application.ErrDuplicateAccount)
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, application.RegisterInput{Email: "a@example.com", Password: "password123", Username: "crypto"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, application.RegisterInput{Email: "b@example.com", Password: "password123", Username: "crypto"})
	assert.ErrorIs(t, err, application.ErrDuplicateAccount)
}

func TestAuthService_RegisterUniqueAffiliateCodes(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		res, err := svc.Register(ctx, application.RegisterInput{
			Email:    string(rune('a'+i%26)) + string(rune('a'+i/26)) + "@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.False(t, seen[res.User.AffiliateCode], "affiliate code issued twice: %s", res.User.AffiliateCode)
		seen[res.User.AffiliateCode] = true
	}
}

func TestAuthService_RegisterWithReferrer(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	ref, err := svc.Register(ctx, application.RegisterInput{Email: "referrer@example.com", Password: "password123"})
	require.NoError(t, err)

	child, err := svc.Register(ctx, application.RegisterInput{
		Email:      "child@example.com",
		Password:   "password123",
		ReferredBy: ref.User.AffiliateCode,
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, ref.User.ID)
	require.NoError(t, err)
	require.Len(t, stored.ReferralIDs, 1)
	assert.Equal(t, child.User.ID, stored.ReferralIDs[0])
}

func TestAuthService_RegisterWithUnknownReferrer(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	// The link is silently dropped; registration itself succeeds.
	res, err := svc.Register(ctx, application.RegisterInput{
		Email:      "orphan@example.com",
		Password:   "password123",
		ReferredBy: "NOSUCHCD",
	})
	require.NoError(t, err)
	assert.Equal(t, "NOSUCHCD", res.User.ReferredBy)
}

func TestAuthService_Login(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, application.RegisterInput{
		Email:    "bob@example.com",
		Password: "password123",
		Username: "bobby",
	})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "bob@example.com", "password123")
	require.NoError(t, err)

	// The token decodes to the same identity used at login.
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	claims, err := jwt.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	// Username works as identifier too.
	_, err = svc.Login(ctx, "bobby", "password123")
	assert.NoError(t, err)
}

func TestAuthService_LoginGenericError(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, application.RegisterInput{Email: "carol@example.com", Password: "password123"})
	require.NoError(t, err)

	// Wrong password and nonexistent identifier produce the same error:
	// no way to probe which field was wrong.
	_, errWrongPwd := svc.Login(ctx, "carol@example.com", "wrongpassword")
	_, errNoUser := svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, errWrongPwd, application.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, application.ErrInvalidCredentials)
	assert.Equal(t, errWrongPwd.Error(), errNoUser.Error())
}

func TestAuthService_OAuthLogin(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	profile := application.OAuthProfile{
		GoogleID:  "google-123",
		Email:     "dave@example.com",
		Name:      "Dave",
		AvatarURL: "https://example.com/dave.png",
	}

	first, err := svc.OAuthLogin(ctx, profile)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.True(t, first.User.EmailVerified)
	assert.Len(t, first.User.AffiliateCode, 8)

	// Second callback finds the same local account.
	second, err := svc.OAuthLogin(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)

	// OAuth-only accounts cannot log in with a password.
	_, err = svc.Login(ctx, "dave@example.com", "anything")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
}

func TestAuthService_OAuthLoginIncompleteProfile(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	// Provider error payloads decode to zero-value profiles; they must
	// never mint an account or a token.
	cases := []application.OAuthProfile{
		{},
		{Email: "no-id@example.com"},
		{GoogleID: "google-456"},
	}
	for _, p := range cases {
		res, err := svc.OAuthLogin(ctx, p)
		assert.ErrorIs(t, err, application.ErrIncompleteProfile)
		assert.Nil(t, res)
	}

	_, err := repo.GetByEmail(ctx, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAuthService_PasswordReset(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, application.RegisterInput{Email: "eve@example.com", Password: "oldpassword"})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "eve@example.com"))
	stored, err := repo.GetByEmail(ctx, "eve@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetToken)

	require.NoError(t, svc.ResetPassword(ctx, stored.ResetToken, "newpassword1"))

	_, err = svc.Login(ctx, "eve@example.com", "oldpassword")
	assert.ErrorIs(t, err, application.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "eve@example.com", "newpassword1")
	assert.NoError(t, err)

	// A consumed token cannot be reused.
	err = svc.ResetPassword(ctx, stored.ResetToken, "anotherpassword")
	assert.ErrorIs(t, err, application.ErrInvalidToken)
}

func TestAuthService_RequestResetUnknownEmail(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)

	// Indistinguishable from the registered case: no error either way.
	err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	assert.NoError(t, err)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuth(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, application.RegisterInput{Email: "frank@example.com", Password: "password123"})
	require.NoError(t, err)

	stored, err := repo.GetByEmail(ctx, "frank@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, stored.VerifyToken)
	assert.False(t, stored.EmailVerified)

	require.NoError(t, svc.VerifyEmail(ctx, stored.VerifyToken))

	stored, err = repo.GetByEmail(ctx, "frank@example.com")
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.Empty(t, stored.VerifyToken)

	// Token is single use.
	err = svc.VerifyEmail(ctx, "deadbeef")
	assert.ErrorIs(t, err, application.ErrInvalidToken)
}
