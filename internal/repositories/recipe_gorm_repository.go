package repositories

import (
	"context"
	"fmt"
	"time"

	"foodgram/internal/apperrors"
	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{db: db}
}

// WithinTransaction runs fn against a repository bound to a single transaction.
// Any error returned by fn rolls the whole unit back.
func (r *GORMRecipeRepository) WithinTransaction(ctx context.Context, fn func(tx RecipeRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMRecipeRepository{db: tx})
	})
}

// Create inserts the recipe row only. Lines, tags and the short link are set separately.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error; err != nil {
		if isMissingReference(err) {
			return apperrors.NotFound("user_not_found", "author %d does not exist", recipe.AuthorID)
		}
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Update writes the scalar fields of an existing recipe. The short link is never touched.
func (r *GORMRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
		"name":         recipe.Name,
		"image":        recipe.Image,
		"text":         recipe.Text,
		"cooking_time": recipe.CookingTime,
		"updated_at":   time.Now(),
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe %d: %w", recipe.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("recipe_not_found", "recipe with ID %d not found", recipe.ID)
	}
	return nil
}

// SetIngredients replaces the whole line set of a recipe.
func (r *GORMRecipeRepository) SetIngredients(ctx context.Context, recipeID uint, lines []models.RecipeIngredient) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear ingredients of recipe %d: %w", recipeID, err)
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].RecipeID = recipeID
	}
	if err := db.Omit(clause.Associations).Create(&lines).Error; err != nil {
		switch {
		case isMissingReference(err):
			return apperrors.Validation("unknown_ingredient", "recipe references an ingredient that does not exist")
		case isDuplicate(err):
			return apperrors.Validation("duplicate_ingredient", "an ingredient may appear only once per recipe")
		}
		return fmt.Errorf("failed to store ingredients of recipe %d: %w", recipeID, err)
	}
	return nil
}

// SetTags replaces the whole tag set of a recipe.
func (r *GORMRecipeRepository) SetTags(ctx context.Context, recipeID uint, tagIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear tags of recipe %d: %w", recipeID, err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, models.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := db.Omit(clause.Associations).Create(&links).Error; err != nil {
		switch {
		case isMissingReference(err):
			return apperrors.Validation("unknown_tag", "recipe references a tag that does not exist")
		case isDuplicate(err):
			return apperrors.Validation("duplicate_tag", "a tag may appear only once per recipe")
		}
		return fmt.Errorf("failed to store tags of recipe %d: %w", recipeID, err)
	}
	return nil
}

// AssignShortLink stores token for the recipe inside its own savepoint, so a
// uniqueness violation leaves the surrounding transaction usable.
// A taken token yields a Conflict.
func (r *GORMRecipeRepository) AssignShortLink(ctx context.Context, recipeID uint, token string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Update("short_link", token).Error
	})
	if err != nil {
		if isDuplicate(err) {
			return apperrors.Conflict("short_link_taken", "short link %q is already in use", token)
		}
		return fmt.Errorf("failed to assign short link to recipe %d: %w", recipeID, err)
	}
	return nil
}

// Delete removes a recipe. Lines, tag links and relation edges cascade.
func (r *GORMRecipeRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Recipe{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("recipe_not_found", "recipe with ID %d not found", id)
	}
	return nil
}

// GetByID loads the bare recipe row.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("recipe_not_found", "recipe with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, err)
	}
	return &recipe, nil
}

// GetDetailed loads the recipe with its author, lines and tags.
func (r *GORMRecipeRepository) GetDetailed(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := hydrate(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("recipe_not_found", "recipe with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, err)
	}
	return &recipe, nil
}

// GetIDByShortLink resolves a short link token to its recipe id.
func (r *GORMRecipeRepository) GetIDByShortLink(ctx context.Context, token string) (uint, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).Select("id").Where("short_link = ?", token).First(&recipe).Error
	if err != nil {
		if isNotFound(err) {
			return 0, apperrors.NotFound("short_link_not_found", "short link %q does not exist", token)
		}
		return 0, fmt.Errorf("failed to resolve short link %q: %w", token, err)
	}
	return recipe.ID, nil
}

// List returns one page of hydrated recipes matching filter, newest first.
func (r *GORMRecipeRepository) List(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.ViewerID != 0 {
		if filter.IsFavorited {
			query = query.Where("recipes.id IN (?)", r.relatedTo(filter.ViewerID, models.RelationFavorite))
		}
		if filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)", r.relatedTo(filter.ViewerID, models.RelationShoppingCart))
		}
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	off, limit := offset(filter.Page, filter.Limit)
	if err := hydrate(query).
		Order("recipes.created_at desc, recipes.id desc").
		Offset(off).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, count, nil
}

// ListByAuthor returns the newest recipes of an author. limit <= 0 means all.
func (r *GORMRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	query := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes of author %d: %w", authorID, err)
	}
	return recipes, nil
}

// CountByAuthor counts the recipes of an author.
func (r *GORMRecipeRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes of author %d: %w", authorID, err)
	}
	return count, nil
}

func (r *GORMRecipeRepository) relatedTo(userID uint, kind models.RelationKind) *gorm.DB {
	return r.db.Model(&models.RecipeRelation{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}

func hydrate(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient").
		Preload("TagLinks", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_tags.tag_id") }).
		Preload("TagLinks.Tag")
}
