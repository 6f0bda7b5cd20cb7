package services_test

import (
	"context"
	"testing"

	"foodgram/internal/apperrors"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const defaultAvatar = "/media/users/default_avatar.jpg"

func TestUserService_GetMarksFollowedAuthors(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	subs := new(MockSubscriptionRepository)
	service := services.NewUserService(users, subs, defaultAvatar)

	users.On("GetByID", ctx, uint(2)).Return(&models.User{ID: 2, Username: "author"}, nil)
	subs.On("Followed", ctx, uint(1), []uint{2}).Return(map[uint]bool{2: true}, nil).Once()

	view, err := service.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, view.IsSubscribed)

	// Anonymous viewers never follow anyone and cost no lookup.
	view, err = service.Get(ctx, 0, 2)
	require.NoError(t, err)
	assert.False(t, view.IsSubscribed)
	subs.AssertNumberOfCalls(t, "Followed", 1)
}

func TestUserService_GetMissingUser(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	service := services.NewUserService(users, new(MockSubscriptionRepository), defaultAvatar)
	users.On("GetByID", ctx, uint(9)).Return(nil, apperrors.NotFound("user_not_found", "user with ID 9 not found"))

	_, err := service.Get(ctx, 0, 9)
	assert.Equal(t, "user_not_found", apperrors.Reason(err))
}

func TestUserService_ListCarriesCount(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	subs := new(MockSubscriptionRepository)
	service := services.NewUserService(users, subs, defaultAvatar)

	users.On("List", ctx, 1, 2).Return([]models.User{{ID: 1}, {ID: 2}}, int64(5), nil)
	subs.On("Followed", ctx, uint(3), []uint{1, 2}).Return(map[uint]bool{1: true}, nil)

	page, err := service.List(ctx, 3, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Count)
	require.Len(t, page.Results, 2)
	assert.True(t, page.Results[0].IsSubscribed)
	assert.False(t, page.Results[1].IsSubscribed)
}

func TestUserService_Avatar(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	service := services.NewUserService(users, new(MockSubscriptionRepository), defaultAvatar)

	users.On("UpdateAvatar", ctx, uint(1), "users/me.png").Return(nil).Once()
	users.On("UpdateAvatar", ctx, uint(1), defaultAvatar).Return(nil).Once()

	avatar, err := service.SetAvatar(ctx, 1, "users/me.png")
	require.NoError(t, err)
	assert.Equal(t, "users/me.png", avatar)
	require.NoError(t, service.ResetAvatar(ctx, 1))
	users.AssertExpectations(t)
	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
