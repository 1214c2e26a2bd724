package repository

import (
	"context"

	"genomics-annotation-service/internal/domain/model"
)

// UserProfileRepository reads user profiles from the accounts database.
// Workers re-check the role at processing time, never trusting what a
// message carried at enqueue time.
type UserProfileRepository interface {
	FindByID(ctx context.Context, userID string) (*model.UserProfile, error)
	UpdateRole(ctx context.Context, userID string, role model.Role) error
}
