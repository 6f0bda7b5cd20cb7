package services_test

import (
	"context"
	"errors"
	"testing"

	"foodgram/internal/apperrors"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSubscriptionService() (*services.SubscriptionService, *MockUserRepository, *MockSubscriptionRepository, *MockRecipeRepository) {
	users := new(MockUserRepository)
	subs := new(MockSubscriptionRepository)
	recipes := new(MockRecipeRepository)
	return services.NewSubscriptionService(users, subs, recipes, nil), users, subs, recipes
}

func TestSubscriptionService_SelfSubscriptionRejectedBeforeLookup(t *testing.T) {
	service, users, subs, _ := newSubscriptionService()

	_, err := service.Subscribe(context.Background(), 4, 4, 0)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Equal(t, "self_subscription", apperrors.Reason(err))
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscriptionService_SubscribeReturnsAuthorWithRecipes(t *testing.T) {
	ctx := context.Background()
	service, users, subs, recipes := newSubscriptionService()

	users.On("GetByID", ctx, uint(2)).Return(&models.User{ID: 2, Username: "author"}, nil).Once()
	subs.On("Create", ctx, uint(2), uint(1)).Return(nil).Once()
	recipes.On("ListByAuthor", ctx, uint(2), 1).Return([]models.Recipe{{ID: 9, Name: "Stew", CookingTime: 60}}, nil).Once()
	recipes.On("CountByAuthor", ctx, uint(2)).Return(int64(3), nil).Once()

	resp, err := service.Subscribe(ctx, 1, 2, 1)
	require.NoError(t, err)
	assert.True(t, resp.IsSubscribed)
	assert.Equal(t, "author", resp.Username)
	assert.Equal(t, int64(3), resp.RecipesCount)
	assert.Equal(t, []models.RecipeSummary{{ID: 9, Name: "Stew", CookingTime: 60}}, resp.Recipes)
}

func TestSubscriptionService_SubscribeToMissingAuthor(t *testing.T) {
	ctx := context.Background()
	service, users, subs, _ := newSubscriptionService()
	users.On("GetByID", ctx, uint(2)).Return(nil, apperrors.NotFound("user_not_found", "user with ID 2 not found")).Once()

	_, err := service.Subscribe(ctx, 1, 2, 0)
	assert.Equal(t, "user_not_found", apperrors.Reason(err))
	subs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscriptionService_DuplicateSubscriptionConflicts(t *testing.T) {
	ctx := context.Background()
	service, users, subs, _ := newSubscriptionService()
	users.On("GetByID", ctx, uint(2)).Return(&models.User{ID: 2}, nil).Once()
	subs.On("Create", ctx, uint(2), uint(1)).Return(apperrors.Conflict("subscription_exists", "already subscribed")).Once()

	_, err := service.Subscribe(ctx, 1, 2, 0)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestSubscriptionService_UnsubscribeWithoutEdge(t *testing.T) {
	ctx := context.Background()
	service, users, subs, _ := newSubscriptionService()
	users.On("GetByID", ctx, uint(2)).Return(&models.User{ID: 2}, nil)
	subs.On("Delete", ctx, uint(2), uint(1)).Return(true, nil).Once()
	subs.On("Delete", ctx, uint(2), uint(1)).Return(false, nil).Once()

	require.NoError(t, service.Unsubscribe(ctx, 1, 2))
	err := service.Unsubscribe(ctx, 1, 2)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "subscription_not_found", apperrors.Reason(err))
}

func TestSubscriptionService_List(t *testing.T) {
	ctx := context.Background()
	service, _, subs, recipes := newSubscriptionService()
	subs.On("ListAuthors", ctx, uint(1), 1, 10).Return([]models.User{{ID: 2}, {ID: 3}}, int64(2), nil).Once()
	recipes.On("ListByAuthor", ctx, mock.AnythingOfType("uint"), 3).Return([]models.Recipe{}, nil).Twice()
	recipes.On("CountByAuthor", ctx, mock.AnythingOfType("uint")).Return(int64(0), nil).Twice()

	page, err := service.List(ctx, 1, 1, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 2)
	assert.True(t, page.Results[1].IsSubscribed)
	recipes.AssertExpectations(t)
}
