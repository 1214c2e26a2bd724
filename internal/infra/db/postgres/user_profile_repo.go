// File: internal/infra/db/postgres/user_profile_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"genomics-annotation-service/internal/domain"
	"genomics-annotation-service/internal/domain/model"
)

// UserProfileRepo reads the accounts database. Profiles are written by the
// web layer; this side only reads roles and flips them on upgrade.
type UserProfileRepo struct {
	pool *pgxpool.Pool
}

func NewUserProfileRepo(pool *pgxpool.Pool) *UserProfileRepo {
	return &UserProfileRepo{pool: pool}
}

func (r *UserProfileRepo) FindByID(ctx context.Context, userID string) (*model.UserProfile, error) {
	const sql = `
SELECT id, full_name, email, institution, role
  FROM profiles
 WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, sql, userID)

	var p model.UserProfile
	var role string
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Institution, &role); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: querying profile: %w", err)
	}
	p.Role = model.Role(role)
	return &p, nil
}

func (r *UserProfileRepo) UpdateRole(ctx context.Context, userID string, role model.Role) error {
	const sql = `UPDATE profiles SET role = $2 WHERE id = $1;`
	tag, err := r.pool.Exec(ctx, sql, userID, string(role))
	if err != nil {
		return fmt.Errorf("postgres: updating role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
