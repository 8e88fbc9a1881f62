package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coinacademia/affiliate-api/internal/domain/entity"
	"github.com/coinacademia/affiliate-api/internal/domain/repository"
)

// UserRepository is the pgx implementation of repository.UserRepository.
// Optional text columns are stored as NULL and surfaced as empty strings.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `
	id::text, email, COALESCE(username, ''), COALESCE(password_hash, ''),
	COALESCE(name, ''), COALESCE(avatar_url, ''), COALESCE(google_id, ''),
	affiliate_code, COALESCE(referred_by, ''), referrals::text[],
	commission::float8, email_verified, COALESCE(verify_token, ''),
	COALESCE(reset_token, ''), reset_expires, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash,
		&u.Name, &u.AvatarURL, &u.GoogleID,
		&u.AffiliateCode, &u.ReferredBy, &u.ReferralIDs,
		&u.Commission, &u.EmailVerified, &u.VerifyToken,
		&u.ResetToken, &u.ResetExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (
			email, username, password_hash, name, avatar_url, google_id,
			affiliate_code, referred_by, email_verified, verify_token
		)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			NULLIF($6, ''), $7, NULLIF($8, ''), $9, NULLIF($10, ''))
		RETURNING id::text, created_at, updated_at
	`, u.Email, u.Username, u.PasswordHash, u.Name, u.AvatarURL, u.GoogleID,
		u.AffiliateCode, u.ReferredBy, u.EmailVerified, u.VerifyToken)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapWriteErr(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1::uuid
	`, id))
}

func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 OR username = $1
	`, identifier))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE google_id = $1
	`, googleID))
}

func (r *UserRepository) GetByAffiliateCode(ctx context.Context, code string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE affiliate_code = $1
	`, code))
}

func (r *UserRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE affiliate_code = $1)
	`, code).Scan(&exists)
	return exists, err
}

func (r *UserRepository) AppendReferral(ctx context.Context, code, userID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET referrals = array_append(referrals, $2::uuid), updated_at = now()
		WHERE affiliate_code = $1
	`, code, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListReferrals(ctx context.Context, userID string) ([]entity.Referral, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id::text, r.email, COALESCE(r.name, ''), r.affiliate_code
		FROM users u
		JOIN LATERAL unnest(u.referrals) WITH ORDINALITY AS ref(id, ord) ON true
		JOIN users r ON r.id = ref.id
		WHERE u.id = $1::uuid
		ORDER BY ref.ord
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Referral, 0)
	for rows.Next() {
		var ref entity.Referral
		if err := rows.Scan(&ref.ID, &ref.Email, &ref.Name, &ref.AffiliateCode); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *UserRepository) AddCommission(ctx context.Context, code string, amount float64) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET commission = commission + $2, updated_at = now()
		WHERE affiliate_code = $1
	`, code, amount)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ResetCommission(ctx context.Context, userID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET commission = 0, updated_at = now()
		WHERE id = $1::uuid
	`, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_token = $2, reset_expires = $3, updated_at = now()
		WHERE id = $1::uuid
	`, userID, token, expiresAt)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, token, newHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, reset_token = NULL, reset_expires = NULL, updated_at = now()
		WHERE reset_token = $1 AND reset_expires > now()
	`, token, newHash)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeVerifyToken(ctx context.Context, token string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email_verified = true, verify_token = NULL, updated_at = now()
		WHERE verify_token = $1
	`, token)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
