package repositories

import (
	"context"

	"blog/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create stores a new user. A taken username yields models.ErrConflict.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Update saves the mutable profile fields. The username never changes.
	Update(ctx context.Context, user *models.User) error
	// ListByName returns every user ordered by first then last name.
	ListByName(ctx context.Context) ([]models.User, error)
}
