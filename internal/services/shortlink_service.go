package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"foodgram/internal/apperrors"
	"foodgram/internal/metrics"
	"foodgram/internal/repositories"

	"github.com/rs/zerolog/log"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrShortLinkExhausted is returned when every attempt produced a taken token.
var ErrShortLinkExhausted = errors.New("could not generate a unique short link")

// TokenGenerator produces a candidate short link token.
type TokenGenerator func() (string, error)

// GenerateToken returns a random alphanumeric token of the given length.
func GenerateToken(length int) (string, error) {
	charsetLen := big.NewInt(int64(len(tokenCharset)))
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		sb.WriteByte(tokenCharset[n.Int64()])
	}
	return sb.String(), nil
}

// BuildShortURL joins a site base and a token into the public short link.
func BuildShortURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/s/" + token
}

// ShortLinkConfig configures token generation and link building.
type ShortLinkConfig struct {
	Length      int
	MaxAttempts int
	SiteDomain  string
	// Generator overrides GenerateToken. Tests use it to force collisions.
	Generator TokenGenerator
}

// ShortLinkService assigns and resolves recipe short links.
type ShortLinkService struct {
	recipes     repositories.RecipeRepository
	generate    TokenGenerator
	maxAttempts int
	siteDomain  string
}

// NewShortLinkService creates a new ShortLinkService.
func NewShortLinkService(recipes repositories.RecipeRepository, cfg ShortLinkConfig) *ShortLinkService {
	gen := cfg.Generator
	if gen == nil {
		length := cfg.Length
		gen = func() (string, error) { return GenerateToken(length) }
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &ShortLinkService{
		recipes:     recipes,
		generate:    gen,
		maxAttempts: attempts,
		siteDomain:  cfg.SiteDomain,
	}
}

// Assign gives recipeID a fresh unique token through tx, which must be the
// repository of the transaction creating the recipe. A collision is retried
// with a new token until the attempts run out.
func (s *ShortLinkService) Assign(ctx context.Context, tx repositories.RecipeRepository, recipeID uint) (string, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		token, err := s.generate()
		if err != nil {
			return "", err
		}
		err = tx.AssignShortLink(ctx, recipeID, token)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return "", err
		}
		metrics.ShortLinkCollisions.Inc()
		log.Info().Uint("recipe_id", recipeID).Int("attempt", attempt).Msg("short link collision, retrying")
	}
	return "", fmt.Errorf("recipe %d after %d attempts: %w", recipeID, s.maxAttempts, ErrShortLinkExhausted)
}

// Resolve maps a token back to its recipe id.
func (s *ShortLinkService) Resolve(ctx context.Context, token string) (uint, error) {
	id, err := s.recipes.GetIDByShortLink(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.ShortLinkResolutions.WithLabelValues("miss").Inc()
		}
		return 0, err
	}
	metrics.ShortLinkResolutions.WithLabelValues("hit").Inc()
	return id, nil
}

// Link returns the full short URL of a recipe. requestBase (scheme and host of
// the current request) is used when no site domain is configured.
func (s *ShortLinkService) Link(ctx context.Context, recipeID uint, requestBase string) (string, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return "", err
	}
	base := s.siteDomain
	if base == "" {
		base = requestBase
	}
	return BuildShortURL(base, recipe.Token()), nil
}
