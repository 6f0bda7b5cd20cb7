package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"foodgram/internal/apperrors"
	"foodgram/internal/models"
	"foodgram/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenIsAlphanumericOfFixedLength(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-zA-Z0-9]{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		token, err := services.GenerateToken(6)
		require.NoError(t, err)
		assert.Regexp(t, pattern, token)
		seen[token] = true
	}
	assert.Greater(t, len(seen), 190, "tokens should practically never repeat")
}

func TestBuildShortURL(t *testing.T) {
	assert.Equal(t, "https://foodgram.example/s/abc123", services.BuildShortURL("https://foodgram.example/", "abc123"))
	assert.Equal(t, "http://localhost:8080/s/abc123", services.BuildShortURL("http://localhost:8080", "abc123"))
}

func TestShortLinkService_Resolve(t *testing.T) {
	ctx := context.Background()
	recipes := new(MockRecipeRepository)
	service := services.NewShortLinkService(recipes, services.ShortLinkConfig{Length: 6, MaxAttempts: 5})

	recipes.On("GetIDByShortLink", ctx, "abc123").Return(uint(12), nil).Once()
	recipes.On("GetIDByShortLink", ctx, "zzzzzz").
		Return(uint(0), apperrors.NotFound("short_link_not_found", "short link does not exist")).Once()

	id, err := service.Resolve(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	_, err = service.Resolve(ctx, "zzzzzz")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestShortLinkService_LinkPrefersConfiguredDomain(t *testing.T) {
	ctx := context.Background()
	recipes := new(MockRecipeRepository)
	token := "abc123"
	recipes.On("GetByID", ctx, uint(12)).Return(&models.Recipe{ID: 12, ShortLink: &token}, nil)

	configured := services.NewShortLinkService(recipes, services.ShortLinkConfig{MaxAttempts: 1, SiteDomain: "https://foodgram.example"})
	link, err := configured.Link(ctx, 12, "http://127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, "https://foodgram.example/s/abc123", link)

	fallback := services.NewShortLinkService(recipes, services.ShortLinkConfig{MaxAttempts: 1})
	link, err = fallback.Link(ctx, 12, "http://127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/s/abc123", link)
}

func TestShortLinkService_AssignStopsOnNonConflictError(t *testing.T) {
	ctx := context.Background()
	recipes := new(MockRecipeRepository)
	service := services.NewShortLinkService(recipes, services.ShortLinkConfig{MaxAttempts: 5, Generator: sequence("AAAAAA")})

	recipes.On("AssignShortLink", ctx, uint(1), "AAAAAA").Return(errors.New("disk full")).Once()

	_, err := service.Assign(ctx, recipes, 1)
	assert.EqualError(t, err, "disk full")
	recipes.AssertExpectations(t)
}
