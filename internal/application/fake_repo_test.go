package application_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coinacademia/affiliate-api/internal/domain/entity"
	"github.com/coinacademia/affiliate-api/internal/domain/repository"
)

// memRepo is an in-memory UserRepository with the same semantics as the
// postgres implementation: conditional updates report ErrNotFound on zero
// matches and inserts report ErrDuplicate on uniqueness violations.
type memRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*entity.User // by id
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*entity.User)}
}

func (m *memRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.users {
		if ex.Email == u.Email ||
			(u.Username != "" && ex.Username == u.Username) ||
			(u.GoogleID != "" && ex.GoogleID == u.GoogleID) ||
			ex.AffiliateCode == u.AffiliateCode {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = fmt.Sprintf("user-%d", m.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.ID == id })
}

func (m *memRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool {
		return u.Email == identifier || (u.Username != "" && u.Username == identifier)
	})
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.Email == email })
}

func (m *memRepo) GetByGoogleID(_ context.Context, googleID string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.GoogleID != "" && u.GoogleID == googleID })
}

func (m *memRepo) GetByAffiliateCode(_ context.Context, code string) (*entity.User, error) {
	return m.find(func(u *entity.User) bool { return u.AffiliateCode == code })
}

func (m *memRepo) CodeExists(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.AffiliateCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) AppendReferral(_ context.Context, code, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.AffiliateCode == code {
			u.ReferralIDs = append(u.ReferralIDs, userID)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRepo) ListReferrals(_ context.Context, userID string) ([]entity.Referral, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := make([]entity.Referral, 0, len(u.ReferralIDs))
	for _, id := range u.ReferralIDs {
		if r, ok := m.users[id]; ok {
			out = append(out, entity.Referral{ID: r.ID, Email: r.Email, Name: r.Name, AffiliateCode: r.AffiliateCode})
		}
	}
	return out, nil
}

func (m *memRepo) AddCommission(_ context.Context, code string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.AffiliateCode == code {
			u.Commission += amount
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRepo) ResetCommission(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Commission = 0
	return nil
}

func (m *memRepo) SetResetToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetToken = token
	exp := expiresAt
	u.ResetExpires = &exp
	return nil
}

func (m *memRepo) ConsumeResetToken(_ context.Context, token, newHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ResetToken == token && u.ResetToken != "" &&
			u.ResetExpires != nil && u.ResetExpires.After(time.Now()) {
			u.PasswordHash = newHash
			u.ResetToken = ""
			u.ResetExpires = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRepo) ConsumeVerifyToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.VerifyToken == token && u.VerifyToken != "" {
			u.EmailVerified = true
			u.VerifyToken = ""
			return nil
		}
	}
	return repository.ErrNotFound
}

var _ repository.UserRepository = (*memRepo)(nil)
