package services_test

import (
	"context"

	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, id uint, avatar string) error {
	args := m.Called(ctx, id, avatar)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockRecipeRepository is a mock implementation of repositories.RecipeRepository.
// WithinTransaction hands the mock itself to the callback.
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) WithinTransaction(ctx context.Context, fn func(tx repositories.RecipeRepository) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) SetIngredients(ctx context.Context, recipeID uint, lines []models.RecipeIngredient) error {
	args := m.Called(ctx, recipeID, lines)
	return args.Error(0)
}

func (m *MockRecipeRepository) SetTags(ctx context.Context, recipeID uint, tagIDs []uint) error {
	args := m.Called(ctx, recipeID, tagIDs)
	return args.Error(0)
}

func (m *MockRecipeRepository) AssignShortLink(ctx context.Context, recipeID uint, token string) error {
	args := m.Called(ctx, recipeID, token)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetDetailed(ctx context.Context, id uint) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetIDByShortLink(ctx context.Context, token string) (uint, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, authorID, limit)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

// MockRelationRepository is a mock implementation of repositories.RelationRepository
type MockRelationRepository struct {
	mock.Mock
}

func (m *MockRelationRepository) Add(ctx context.Context, userID, recipeID uint, kind models.RelationKind) error {
	args := m.Called(ctx, userID, recipeID, kind)
	return args.Error(0)
}

func (m *MockRelationRepository) Remove(ctx context.Context, userID, recipeID uint, kind models.RelationKind) (bool, error) {
	args := m.Called(ctx, userID, recipeID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockRelationRepository) Flags(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]models.RecipeFlags, error) {
	args := m.Called(ctx, userID, recipeIDs)
	return args.Get(0).(map[uint]models.RecipeFlags), args.Error(1)
}

func (m *MockRelationRepository) ShoppingLines(ctx context.Context, userID uint) ([]models.ShoppingLine, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.ShoppingLine), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of repositories.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, authorID, subscriberID uint) error {
	args := m.Called(ctx, authorID, subscriberID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, authorID, subscriberID uint) (bool, error) {
	args := m.Called(ctx, authorID, subscriberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) Followed(ctx context.Context, subscriberID uint, authorIDs []uint) (map[uint]bool, error) {
	args := m.Called(ctx, subscriberID, authorIDs)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockSubscriptionRepository) ListAuthors(ctx context.Context, subscriberID uint, page, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, subscriberID, page, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockIngredientRepository is a mock implementation of repositories.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) Search(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockIngredientRepository) CreateBatch(ctx context.Context, items []models.Ingredient) (int64, error) {
	args := m.Called(ctx, items)
	return args.Get(0).(int64), args.Error(1)
}

// MockTagRepository is a mock implementation of repositories.TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) All(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) ExistingIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[uint]bool), args.Error(1)
}

func (m *MockTagRepository) CreateBatch(ctx context.Context, items []models.Tag) (int64, error) {
	args := m.Called(ctx, items)
	return args.Get(0).(int64), args.Error(1)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
