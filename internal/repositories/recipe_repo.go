package repositories

import (
	"context"

	"foodgram/internal/models"
)

// RecipeRepository defines the interface for recipe aggregate persistence.
//
// Create, SetIngredients, SetTags and AssignShortLink are meant to be called
// inside WithinTransaction so that a recipe is never visible half-built.
type RecipeRepository interface {
	WithinTransaction(ctx context.Context, fn func(tx RecipeRepository) error) error

	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	SetIngredients(ctx context.Context, recipeID uint, lines []models.RecipeIngredient) error
	SetTags(ctx context.Context, recipeID uint, tagIDs []uint) error
	AssignShortLink(ctx context.Context, recipeID uint, token string) error
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	GetDetailed(ctx context.Context, id uint) (*models.Recipe, error)
	GetIDByShortLink(ctx context.Context, token string) (uint, error)
	List(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}
