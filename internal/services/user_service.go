package services

import (
	"context"

	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// UserService serves user profiles and avatars.
type UserService struct {
	users         repositories.UserRepository
	subs          repositories.SubscriptionRepository
	defaultAvatar string
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, subs repositories.SubscriptionRepository, defaultAvatar string) *UserService {
	return &UserService{users: users, subs: subs, defaultAvatar: defaultAvatar}
}

// Get returns the profile of id as seen by viewerID (0 for anonymous).
func (s *UserService) Get(ctx context.Context, viewerID, id uint) (*models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	followed, err := s.followed(ctx, viewerID, []uint{id})
	if err != nil {
		return nil, err
	}
	view := models.NewUserResponse(user, followed[id])
	return &view, nil
}

// List returns one page of profiles as seen by viewerID.
func (s *UserService) List(ctx context.Context, viewerID uint, page, limit int) (models.Page[models.UserResponse], error) {
	users, count, err := s.users.List(ctx, page, limit)
	if err != nil {
		return models.Page[models.UserResponse]{}, err
	}
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	followed, err := s.followed(ctx, viewerID, ids)
	if err != nil {
		return models.Page[models.UserResponse]{}, err
	}
	results := make([]models.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, models.NewUserResponse(&users[i], followed[users[i].ID]))
	}
	return models.Page[models.UserResponse]{Count: count, Results: results}, nil
}

// SetAvatar stores a new avatar reference for userID.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, avatar string) (string, error) {
	if err := s.users.UpdateAvatar(ctx, userID, avatar); err != nil {
		return "", err
	}
	return avatar, nil
}

// ResetAvatar restores the configured default avatar.
func (s *UserService) ResetAvatar(ctx context.Context, userID uint) error {
	return s.users.UpdateAvatar(ctx, userID, s.defaultAvatar)
}

// followed is empty for anonymous viewers.
func (s *UserService) followed(ctx context.Context, viewerID uint, ids []uint) (map[uint]bool, error) {
	if viewerID == 0 {
		return map[uint]bool{}, nil
	}
	return s.subs.Followed(ctx, viewerID, ids)
}
