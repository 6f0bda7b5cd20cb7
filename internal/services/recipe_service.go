package services

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/apperrors"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/rs/zerolog/log"
)

// RecipeService handles the recipe aggregate: validation, transactional
// writes and per-viewer hydration.
type RecipeService struct {
	recipes     repositories.RecipeRepository
	ingredients repositories.IngredientRepository
	tags        repositories.TagRepository
	relations   repositories.RelationRepository
	subs        repositories.SubscriptionRepository
	shortLinks  *ShortLinkService
	publisher   EventPublisher
}

// NewRecipeService creates a new RecipeService. publisher may be nil.
func NewRecipeService(
	recipes repositories.RecipeRepository,
	ingredients repositories.IngredientRepository,
	tags repositories.TagRepository,
	relations repositories.RelationRepository,
	subs repositories.SubscriptionRepository,
	shortLinks *ShortLinkService,
	publisher EventPublisher,
) *RecipeService {
	return &RecipeService{
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		relations:   relations,
		subs:        subs,
		shortLinks:  shortLinks,
		publisher:   publisher,
	}
}

// Create validates the draft and then writes the recipe row, its lines, its
// tag links and its short link in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uint, req models.RecipeCreateRequest) (*models.RecipeResponse, error) {
	if err := validateScalars(req.Name, req.Text, req.Image, req.CookingTime); err != nil {
		return nil, err
	}
	if err := s.validateIngredients(ctx, req.Ingredients); err != nil {
		return nil, err
	}
	if err := s.validateTags(ctx, req.Tags); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       req.Image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	err := s.recipes.WithinTransaction(ctx, func(tx repositories.RecipeRepository) error {
		if err := tx.Create(ctx, recipe); err != nil {
			return err
		}
		if err := tx.SetIngredients(ctx, recipe.ID, toLines(req.Ingredients)); err != nil {
			return err
		}
		if err := tx.SetTags(ctx, recipe.ID, req.Tags); err != nil {
			return err
		}
		_, err := s.shortLinks.Assign(ctx, tx, recipe.ID)
		return err
	})
	metrics.RecordRecipeWrite("create", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	log.Info().Uint("recipe_id", recipe.ID).Uint("author_id", authorID).Msg("recipe created")
	publishEvent(ctx, s.publisher, models.EventRecipeCreated, map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	})
	return s.Get(ctx, authorID, recipe.ID)
}

// Update applies a partial update. Only the author may update a recipe.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uint, req models.RecipeUpdateRequest) (*models.RecipeResponse, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, apperrors.Forbidden("not_author", "only the author may change recipe %d", recipeID)
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Text != nil {
		recipe.Text = *req.Text
	}
	if req.Image != nil {
		recipe.Image = *req.Image
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}
	if err := validateScalars(recipe.Name, recipe.Text, recipe.Image, recipe.CookingTime); err != nil {
		return nil, err
	}
	if req.Ingredients != nil {
		if err := s.validateIngredients(ctx, *req.Ingredients); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		if err := s.validateTags(ctx, *req.Tags); err != nil {
			return nil, err
		}
	}

	err = s.recipes.WithinTransaction(ctx, func(tx repositories.RecipeRepository) error {
		if err := tx.Update(ctx, recipe); err != nil {
			return err
		}
		if req.Ingredients != nil {
			if err := tx.SetIngredients(ctx, recipe.ID, toLines(*req.Ingredients)); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			return tx.SetTags(ctx, recipe.ID, *req.Tags)
		}
		return nil
	})
	metrics.RecordRecipeWrite("update", err)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe %d: %w", recipeID, err)
	}

	publishEvent(ctx, s.publisher, models.EventRecipeUpdated, map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": userID,
	})
	return s.Get(ctx, userID, recipe.ID)
}

// Delete removes a recipe owned by userID. Relation edges cascade.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return apperrors.Forbidden("not_author", "only the author may delete recipe %d", recipeID)
	}
	err = s.recipes.Delete(ctx, recipeID)
	metrics.RecordRecipeWrite("delete", err)
	if err != nil {
		return err
	}
	publishEvent(ctx, s.publisher, models.EventRecipeDeleted, map[string]interface{}{
		"recipe_id": recipeID,
		"author_id": userID,
	})
	return nil
}

// Get returns the hydrated recipe as seen by viewerID (0 for anonymous).
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID uint) (*models.RecipeResponse, error) {
	recipe, err := s.recipes.GetDetailed(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	views, err := s.present(ctx, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns one page of recipes. Relation filters are ignored for anonymous viewers.
func (s *RecipeService) List(ctx context.Context, filter models.RecipeFilter) (models.Page[models.RecipeResponse], error) {
	if filter.ViewerID == 0 {
		filter.IsFavorited = false
		filter.IsInShoppingCart = false
	}
	recipes, count, err := s.recipes.List(ctx, filter)
	if err != nil {
		return models.Page[models.RecipeResponse]{}, err
	}
	views, err := s.present(ctx, filter.ViewerID, recipes)
	if err != nil {
		return models.Page[models.RecipeResponse]{}, err
	}
	return models.Page[models.RecipeResponse]{Count: count, Results: views}, nil
}

func (s *RecipeService) present(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]models.RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	flags := map[uint]models.RecipeFlags{}
	followed := map[uint]bool{}
	if viewerID != 0 {
		var err error
		if flags, err = s.relations.Flags(ctx, viewerID, recipeIDs); err != nil {
			return nil, err
		}
		if followed, err = s.subs.Followed(ctx, viewerID, authorIDs); err != nil {
			return nil, err
		}
	}

	views := make([]models.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		views = append(views, models.NewRecipeResponse(r, flags[r.ID], followed[r.AuthorID]))
	}
	return views, nil
}

func validateScalars(name, text, image string, cookingTime int) error {
	switch {
	case strings.TrimSpace(name) == "":
		return apperrors.Validation("missing_field", "name is required")
	case strings.TrimSpace(text) == "":
		return apperrors.Validation("missing_field", "text is required")
	case strings.TrimSpace(image) == "":
		return apperrors.Validation("missing_field", "image is required")
	case cookingTime < 1:
		return apperrors.Validation("invalid_cooking_time", "cooking time must be at least 1 minute")
	}
	return nil
}

func (s *RecipeService) validateIngredients(ctx context.Context, lines []models.IngredientAmount) error {
	if len(lines) == 0 {
		return apperrors.Validation("empty_ingredients", "at least one ingredient is required")
	}
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]bool, len(lines))
	for _, line := range lines {
		if line.Amount < 1 {
			return apperrors.Validation("invalid_amount", "amount of ingredient %d must be at least 1", line.ID)
		}
		if seen[line.ID] {
			return apperrors.Validation("duplicate_ingredient", "ingredient %d is listed more than once", line.ID)
		}
		seen[line.ID] = true
		ids = append(ids, line.ID)
	}

	existing, err := s.ingredients.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !existing[id] {
			return apperrors.Validation("unknown_ingredient", "ingredient %d does not exist", id)
		}
	}
	return nil
}

func (s *RecipeService) validateTags(ctx context.Context, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return apperrors.Validation("empty_tags", "at least one tag is required")
	}
	seen := make(map[uint]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			return apperrors.Validation("duplicate_tag", "tag %d is listed more than once", id)
		}
		seen[id] = true
	}

	existing, err := s.tags.ExistingIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	for _, id := range tagIDs {
		if !existing[id] {
			return apperrors.Validation("unknown_tag", "tag %d does not exist", id)
		}
	}
	return nil
}

func toLines(amounts []models.IngredientAmount) []models.RecipeIngredient {
	lines := make([]models.RecipeIngredient, 0, len(amounts))
	for _, a := range amounts {
		lines = append(lines, models.RecipeIngredient{IngredientID: a.ID, Amount: a.Amount})
	}
	return lines
}
