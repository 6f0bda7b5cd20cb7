package repositories

import (
	"context"
	"fmt"
	"strings"

	"foodgram/internal/apperrors"
	"foodgram/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngredientRepository reads and seeds the ingredient catalog.
type IngredientRepository interface {
	Search(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*models.Ingredient, error)
	ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error)
	CreateBatch(ctx context.Context, items []models.Ingredient) (int64, error)
}

// TagRepository reads and seeds the tag catalog.
type TagRepository interface {
	All(ctx context.Context) ([]models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error)
	CreateBatch(ctx context.Context, items []models.Tag) (int64, error)
}

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	db *gorm.DB
}

func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{db: db}
}

// Search matches names by case-insensitive prefix. An empty prefix returns the whole catalog.
func (r *GORMIngredientRepository) Search(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name, measurement_unit")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePrefix(namePrefix))
	}
	var items []models.Ingredient
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return items, nil
}

func (r *GORMIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	var item models.Ingredient
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("ingredient_not_found", "ingredient with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get ingredient by ID %d: %w", id, err)
	}
	return &item, nil
}

func (r *GORMIngredientRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	return existingIDs(r.db.WithContext(ctx).Model(&models.Ingredient{}), ids)
}

// CreateBatch inserts items, skipping any (name, unit) pair already present.
// It returns the number of rows actually inserted.
func (r *GORMIngredientRepository) CreateBatch(ctx context.Context, items []models.Ingredient) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&items, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to import ingredients: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{db: db}
}

func (r *GORMTagRepository) All(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (r *GORMTagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("tag_not_found", "tag with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get tag by ID %d: %w", id, err)
	}
	return &tag, nil
}

func (r *GORMTagRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	return existingIDs(r.db.WithContext(ctx).Model(&models.Tag{}), ids)
}

// CreateBatch inserts tags, skipping names or slugs already present.
func (r *GORMTagRepository) CreateBatch(ctx context.Context, items []models.Tag) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&items, 500)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to import tags: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func existingIDs(query *gorm.DB, ids []uint) (map[uint]bool, error) {
	found := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var existing []uint
	if err := query.Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
		return nil, fmt.Errorf("failed to look up ids: %w", err)
	}
	for _, id := range existing {
		found[id] = true
	}
	return found, nil
}

func likePrefix(prefix string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(prefix))
	return escaped + "%"
}
