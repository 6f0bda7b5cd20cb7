package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodgram/internal/models"
	"foodgram/internal/repositories"

	"github.com/rs/zerolog/log"
)

// CatalogService serves and seeds the tag and ingredient catalogs.
type CatalogService struct {
	ingredients repositories.IngredientRepository
	tags        repositories.TagRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(ingredients repositories.IngredientRepository, tags repositories.TagRepository) *CatalogService {
	return &CatalogService{ingredients: ingredients, tags: tags}
}

func (s *CatalogService) Tags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.All(ctx)
}

func (s *CatalogService) Tag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

// Ingredients lists ingredients whose name starts with prefix, ignoring case.
func (s *CatalogService) Ingredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	return s.ingredients.Search(ctx, strings.TrimSpace(prefix))
}

func (s *CatalogService) Ingredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	return s.ingredients.GetByID(ctx, id)
}

// ImportIngredients reads "name,measurement_unit" rows and inserts the ones
// not yet in the catalog. It returns the number of rows inserted.
func (s *CatalogService) ImportIngredients(ctx context.Context, r io.Reader) (int64, error) {
	rows, err := readCatalogCSV(r, "name", "measurement_unit")
	if err != nil {
		return 0, err
	}
	items := make([]models.Ingredient, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.Ingredient{Name: row[0], MeasurementUnit: row[1]})
	}
	n, err := s.ingredients.CreateBatch(ctx, items)
	if err != nil {
		return 0, err
	}
	log.Info().Int("rows", len(items)).Int64("inserted", n).Msg("ingredients imported")
	return n, nil
}

// ImportTags reads "name,slug" rows and inserts the ones not yet in the catalog.
func (s *CatalogService) ImportTags(ctx context.Context, r io.Reader) (int64, error) {
	rows, err := readCatalogCSV(r, "name", "slug")
	if err != nil {
		return 0, err
	}
	items := make([]models.Tag, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.Tag{Name: row[0], Slug: row[1]})
	}
	n, err := s.tags.CreateBatch(ctx, items)
	if err != nil {
		return 0, err
	}
	log.Info().Int("rows", len(items)).Int64("inserted", n).Msg("tags imported")
	return n, nil
}

// ExportIngredients writes the whole ingredient catalog as indented JSON.
func (s *CatalogService) ExportIngredients(ctx context.Context, w io.Writer) (int, error) {
	items, err := s.ingredients.Search(ctx, "")
	if err != nil {
		return 0, err
	}
	return len(items), writeJSON(w, items)
}

// ExportTags writes the whole tag catalog as indented JSON.
func (s *CatalogService) ExportTags(ctx context.Context, w io.Writer) (int, error) {
	tags, err := s.tags.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(tags), writeJSON(w, tags)
}

// readCatalogCSV returns two-column rows with blank rows skipped and an
// optional header matching the given column names dropped.
func readCatalogCSV(r io.Reader, first, second string) ([][2]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][2]string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("CSV line %d: expected 2 columns, got %d", line, len(record))
		}
		a, b := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(a, first) && strings.EqualFold(b, second) {
			continue
		}
		if a == "" || b == "" {
			return nil, fmt.Errorf("CSV line %d: empty value", line)
		}
		rows = append(rows, [2]string{a, b})
	}
	return rows, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}
