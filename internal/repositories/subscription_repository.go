package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/apperrors"
	"foodgram/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository persists author <- subscriber edges.
type SubscriptionRepository interface {
	Create(ctx context.Context, authorID, subscriberID uint) error
	Delete(ctx context.Context, authorID, subscriberID uint) (bool, error)
	Followed(ctx context.Context, subscriberID uint, authorIDs []uint) (map[uint]bool, error)
	ListAuthors(ctx context.Context, subscriberID uint, page, limit int) ([]models.User, int64, error)
}

// GORMSubscriptionRepository is a GORM implementation of SubscriptionRepository.
type GORMSubscriptionRepository struct {
	db *gorm.DB
}

// NewGORMSubscriptionRepository creates a new instance of GORMSubscriptionRepository.
func NewGORMSubscriptionRepository(db *gorm.DB) *GORMSubscriptionRepository {
	return &GORMSubscriptionRepository{db: db}
}

func (r *GORMSubscriptionRepository) Create(ctx context.Context, authorID, subscriberID uint) error {
	sub := models.Subscription{AuthorID: authorID, SubscriberID: subscriberID}
	if err := r.db.WithContext(ctx).Create(&sub).Error; err != nil {
		switch {
		case isDuplicate(err):
			return apperrors.Conflict("subscription_exists", "already subscribed to user %d", authorID)
		case isMissingReference(err):
			return apperrors.NotFound("user_not_found", "user with ID %d not found", authorID)
		}
		return fmt.Errorf("failed to subscribe user %d to %d: %w", subscriberID, authorID, err)
	}
	return nil
}

func (r *GORMSubscriptionRepository) Delete(ctx context.Context, authorID, subscriberID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("author_id = ? AND subscriber_id = ?", authorID, subscriberID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to unsubscribe user %d from %d: %w", subscriberID, authorID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Followed reports which of authorIDs the subscriber follows.
func (r *GORMSubscriptionRepository) Followed(ctx context.Context, subscriberID uint, authorIDs []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool, len(authorIDs))
	if subscriberID == 0 || len(authorIDs) == 0 {
		return followed, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND author_id IN ?", subscriberID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load subscriptions of user %d: %w", subscriberID, err)
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

// ListAuthors returns one page of the authors a user follows, oldest subscription first.
func (r *GORMSubscriptionRepository) ListAuthors(ctx context.Context, subscriberID uint, page, limit int) ([]models.User, int64, error) {
	var (
		authors []models.User
		count   int64
	)
	off, limit := offset(page, limit)

	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions of user %d: %w", subscriberID, err)
	}
	if err := r.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.id").
		Offset(off).
		Limit(limit).
		Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions of user %d: %w", subscriberID, err)
	}
	return authors, count, nil
}
