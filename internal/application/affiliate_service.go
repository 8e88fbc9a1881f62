package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/coinacademia/affiliate-api/internal/domain/entity"
	"github.com/coinacademia/affiliate-api/internal/domain/repository"
	"github.com/coinacademia/affiliate-api/pkg/helpers"
)

const (
	codeLength      = 8
	maxCodeAttempts = 8
)

// AffiliateService owns affiliate code allocation and the commission ledger.
type AffiliateService struct {
	Repo   repository.UserRepository
	Logger *logrus.Logger
}

func NewAffiliateService(repo repository.UserRepository, logger *logrus.Logger) *AffiliateService {
	return &AffiliateService{Repo: repo, Logger: logger}
}

// Dashboard is the affiliate view of a user: balance plus referred accounts.
type Dashboard struct {
	Email         string            `json:"email"`
	Name          string            `json:"name,omitempty"`
	AffiliateCode string            `json:"affiliateCode"`
	ReferredBy    string            `json:"referredBy,omitempty"`
	Commission    float64           `json:"commission"`
	Referrals     []entity.Referral `json:"referrals"`
}

// GenerateCode allocates an unused affiliate code. The space (36^8) is large
// enough that collisions are rare; attempts are bounded so a degenerate store
// fails loudly instead of looping forever.
func (s *AffiliateService) GenerateCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := helpers.RandomCode(codeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.Repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// GetDashboard resolves the affiliate dashboard for an authenticated user.
func (s *AffiliateService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	refs, err := s.Repo.ListReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Email:         u.Email,
		Name:          u.Name,
		AffiliateCode: u.AffiliateCode,
		ReferredBy:    u.ReferredBy,
		Commission:    u.Commission,
		Referrals:     refs,
	}, nil
}

// Credit adds amount to the commission balance of the affiliate owning code.
// The amount is taken as-is; the caller is trusted (see config
// CommissionAuthRequired).
func (s *AffiliateService) Credit(ctx context.Context, code string, amount float64) error {
	if err := s.Repo.AddCommission(ctx, code, amount); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownAffiliate
		}
		return err
	}
	s.Logger.WithFields(logrus.Fields{"affiliate_code": code, "amount": amount}).Info("commission credited")
	return nil
}

// Withdraw zeroes the commission balance. It records a payout request only;
// no money moves here.
func (s *AffiliateService) Withdraw(ctx context.Context, userID string) error {
	if err := s.Repo.ResetCommission(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownUser
		}
		return err
	}
	s.Logger.WithField("user_id", userID).Info("commission withdrawn")
	return nil
}
