package repository

import (
	"context"
	"errors"
	"time"

	"github.com/coinacademia/affiliate-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no row matches a lookup or a
	// conditional update touches zero rows.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (email, username, google id, affiliate code).
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the storage operations for user records.
// Mutations that the domain requires to be race-free (referral linking,
// commission changes, token consumption) are single conditional updates,
// not read-modify-write sequences.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	GetByAffiliateCode(ctx context.Context, code string) (*entity.User, error)

	// CodeExists reports whether an affiliate code is already assigned.
	CodeExists(ctx context.Context, code string) (bool, error)

	// AppendReferral atomically appends userID to the referrals list of the
	// user owning the given affiliate code. ErrNotFound if no such code.
	AppendReferral(ctx context.Context, code, userID string) error

	// ListReferrals resolves the referrals list of a user into public
	// profiles, preserving the stored order.
	ListReferrals(ctx context.Context, userID string) ([]entity.Referral, error)

	// AddCommission atomically increments the commission balance of the
	// affiliate owning code. ErrNotFound if no such code.
	AddCommission(ctx context.Context, code string, amount float64) error

	// ResetCommission sets the commission balance to zero.
	ResetCommission(ctx context.Context, userID string) error

	// SetResetToken stores a single-use password reset token with expiry.
	SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error

	// ConsumeResetToken swaps the password hash for the user holding an
	// unexpired reset token and clears the token. ErrNotFound when the
	// token is unknown, expired, or already consumed.
	ConsumeResetToken(ctx context.Context, token, newHash string) error

	// ConsumeVerifyToken marks the holder of the verification token as
	// verified and clears the token. ErrNotFound when no match.
	ConsumeVerifyToken(ctx context.Context, token string) error
}
