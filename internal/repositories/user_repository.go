package repositories

import (
	"context"

	"foodgram/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, page, limit int) ([]models.User, int64, error)
	UpdateAvatar(ctx context.Context, id uint, avatar string) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}
