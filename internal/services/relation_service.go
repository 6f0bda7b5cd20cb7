package services

import (
	"context"
	"errors"

	"foodgram/internal/apperrors"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/rs/zerolog/log"
)

// RelationService toggles favorite and shopping cart membership.
type RelationService struct {
	recipes   repositories.RecipeRepository
	relations repositories.RelationRepository
	publisher EventPublisher
}

// NewRelationService creates a new RelationService. publisher may be nil.
func NewRelationService(recipes repositories.RecipeRepository, relations repositories.RelationRepository, publisher EventPublisher) *RelationService {
	return &RelationService{recipes: recipes, relations: relations, publisher: publisher}
}

// Add puts the recipe into the user's collection of the given kind.
func (s *RelationService) Add(ctx context.Context, userID, recipeID uint, kind models.RelationKind) (*models.RecipeSummary, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		s.record(kind, "add", err)
		return nil, err
	}
	if err := s.relations.Add(ctx, userID, recipeID, kind); err != nil {
		s.record(kind, "add", err)
		if errors.Is(err, apperrors.ErrConflict) {
			log.Info().Uint("user_id", userID).Uint("recipe_id", recipeID).Str("kind", string(kind)).Msg("relation already exists")
		}
		return nil, err
	}
	s.record(kind, "add", nil)

	publishEvent(ctx, s.publisher, models.EventRelationAdded, map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
		"kind":      string(kind),
	})
	summary := models.NewRecipeSummary(recipe)
	return &summary, nil
}

// Remove takes the recipe out of the user's collection. A missing recipe and
// a missing edge are distinct not-found outcomes.
func (s *RelationService) Remove(ctx context.Context, userID, recipeID uint, kind models.RelationKind) error {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Info().Uint("user_id", userID).Uint("recipe_id", recipeID).Str("kind", string(kind)).Msg("relation removal: recipe not found")
		}
		s.record(kind, "remove", err)
		return err
	}

	removed, err := s.relations.Remove(ctx, userID, recipeID, kind)
	if err != nil {
		s.record(kind, "remove", err)
		return err
	}
	if !removed {
		log.Info().Uint("user_id", userID).Uint("recipe_id", recipeID).Str("kind", string(kind)).Msg("relation removal: edge not found")
		err := apperrors.NotFound("relation_not_found", "recipe %d is not in %s", recipeID, kind.Label())
		s.record(kind, "remove", err)
		return err
	}
	s.record(kind, "remove", nil)

	publishEvent(ctx, s.publisher, models.EventRelationRemoved, map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
		"kind":      string(kind),
	})
	return nil
}

func (s *RelationService) record(kind models.RelationKind, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperrors.Reason(err)
		if outcome == "" {
			outcome = "error"
		}
	}
	metrics.RecordRelation(string(kind), op, outcome)
}
