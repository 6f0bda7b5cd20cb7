package services

import (
	"context"

	"foodgram/internal/apperrors"
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/rs/zerolog/log"
)

// SubscriptionService manages author subscriptions.
type SubscriptionService struct {
	users     repositories.UserRepository
	subs      repositories.SubscriptionRepository
	recipes   repositories.RecipeRepository
	publisher EventPublisher
}

// NewSubscriptionService creates a new SubscriptionService. publisher may be nil.
func NewSubscriptionService(users repositories.UserRepository, subs repositories.SubscriptionRepository, recipes repositories.RecipeRepository, publisher EventPublisher) *SubscriptionService {
	return &SubscriptionService{users: users, subs: subs, recipes: recipes, publisher: publisher}
}

// Subscribe makes subscriberID follow authorID and returns the author profile
// with up to recipesLimit recipes (all when recipesLimit <= 0).
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID uint, recipesLimit int) (*models.SubscriptionResponse, error) {
	if subscriberID == authorID {
		return nil, apperrors.Validation("self_subscription", "you cannot subscribe to yourself")
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if err := s.subs.Create(ctx, authorID, subscriberID); err != nil {
		return nil, err
	}

	log.Info().Uint("author_id", authorID).Uint("subscriber_id", subscriberID).Msg("subscription created")
	publishEvent(ctx, s.publisher, models.EventSubscriptionCreated, map[string]interface{}{
		"author_id":     authorID,
		"subscriber_id": subscriberID,
	})
	return s.describe(ctx, author, recipesLimit)
}

// Unsubscribe removes the edge. A missing author and a missing edge are distinct not-found outcomes.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID uint) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return err
	}
	removed, err := s.subs.Delete(ctx, authorID, subscriberID)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.NotFound("subscription_not_found", "you are not subscribed to user %d", authorID)
	}
	publishEvent(ctx, s.publisher, models.EventSubscriptionDeleted, map[string]interface{}{
		"author_id":     authorID,
		"subscriber_id": subscriberID,
	})
	return nil
}

// List returns one page of the authors subscriberID follows.
func (s *SubscriptionService) List(ctx context.Context, subscriberID uint, page, limit, recipesLimit int) (models.Page[models.SubscriptionResponse], error) {
	authors, count, err := s.subs.ListAuthors(ctx, subscriberID, page, limit)
	if err != nil {
		return models.Page[models.SubscriptionResponse]{}, err
	}
	results := make([]models.SubscriptionResponse, 0, len(authors))
	for i := range authors {
		view, err := s.describe(ctx, &authors[i], recipesLimit)
		if err != nil {
			return models.Page[models.SubscriptionResponse]{}, err
		}
		results = append(results, *view)
	}
	return models.Page[models.SubscriptionResponse]{Count: count, Results: results}, nil
}

func (s *SubscriptionService) describe(ctx context.Context, author *models.User, recipesLimit int) (*models.SubscriptionResponse, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	total, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, models.NewRecipeSummary(&recipes[i]))
	}
	return &models.SubscriptionResponse{
		UserResponse: models.NewUserResponse(author, true),
		Recipes:      summaries,
		RecipesCount: total,
	}, nil
}
