package repositories

import (
	"context"
	"fmt"

	"foodgram/internal/apperrors"
	"foodgram/internal/models"

	"gorm.io/gorm"
)

// RelationRepository persists favorite and shopping cart edges.
type RelationRepository interface {
	// Add inserts the edge. An existing edge of the same kind yields a Conflict.
	Add(ctx context.Context, userID, recipeID uint, kind models.RelationKind) error
	// Remove deletes the edge and reports whether one existed.
	Remove(ctx context.Context, userID, recipeID uint, kind models.RelationKind) (bool, error)
	Flags(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]models.RecipeFlags, error)
	ShoppingLines(ctx context.Context, userID uint) ([]models.ShoppingLine, error)
}

// GORMRelationRepository is a GORM implementation of RelationRepository.
type GORMRelationRepository struct {
	db *gorm.DB
}

// NewGORMRelationRepository creates a new instance of GORMRelationRepository.
func NewGORMRelationRepository(db *gorm.DB) *GORMRelationRepository {
	return &GORMRelationRepository{db: db}
}

// Add relies on the (user_id, recipe_id, kind) unique index, so two
// concurrent adds of the same edge produce exactly one row.
func (r *GORMRelationRepository) Add(ctx context.Context, userID, recipeID uint, kind models.RelationKind) error {
	edge := models.RecipeRelation{UserID: userID, RecipeID: recipeID, Kind: kind}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		switch {
		case isDuplicate(err):
			return apperrors.Conflict("relation_exists", "recipe %d is already in %s", recipeID, kind.Label())
		case isMissingReference(err):
			return apperrors.NotFound("recipe_not_found", "recipe with ID %d not found", recipeID)
		}
		return fmt.Errorf("failed to add recipe %d to %s of user %d: %w", recipeID, kind, userID, err)
	}
	return nil
}

func (r *GORMRelationRepository) Remove(ctx context.Context, userID, recipeID uint, kind models.RelationKind) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.RecipeRelation{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove recipe %d from %s of user %d: %w", recipeID, kind, userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Flags reports, for each of recipeIDs, which collections of userID it belongs to.
// Recipes in neither collection are absent from the map.
func (r *GORMRelationRepository) Flags(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]models.RecipeFlags, error) {
	flags := make(map[uint]models.RecipeFlags, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return flags, nil
	}

	var edges []models.RecipeRelation
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Find(&edges).Error; err != nil {
		return nil, fmt.Errorf("failed to load relations of user %d: %w", userID, err)
	}
	for _, edge := range edges {
		f := flags[edge.RecipeID]
		switch edge.Kind {
		case models.RelationFavorite:
			f.IsFavorited = true
		case models.RelationShoppingCart:
			f.IsInShoppingCart = true
		}
		flags[edge.RecipeID] = f
	}
	return flags, nil
}

// ShoppingLines returns every ingredient line of every recipe in the user's
// shopping cart, unaggregated, in a single join query.
func (r *GORMRelationRepository) ShoppingLines(ctx context.Context, userID uint) ([]models.ShoppingLine, error) {
	var lines []models.ShoppingLine
	err := r.db.WithContext(ctx).
		Table("recipe_relations").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipe_relations.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_relations.user_id = ? AND recipe_relations.kind = ?", userID, models.RelationShoppingCart).
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping lines of user %d: %w", userID, err)
	}
	return lines, nil
}
