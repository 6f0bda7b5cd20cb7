package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// ShoppingListService turns a shopping cart into a downloadable list.
type ShoppingListService struct {
	relations repositories.RelationRepository
	users     repositories.UserRepository
}

// NewShoppingListService creates a new ShoppingListService.
func NewShoppingListService(relations repositories.RelationRepository, users repositories.UserRepository) *ShoppingListService {
	return &ShoppingListService{relations: relations, users: users}
}

// BuildShoppingList groups lines by (name, unit), sums the amounts and sorts
// by name then unit. Lines sharing a name but not a unit stay separate.
func BuildShoppingList(lines []models.ShoppingLine) []models.ShoppingItem {
	type key struct{ name, unit string }
	totals := make(map[key]int, len(lines))
	for _, line := range lines {
		totals[key{line.Name, line.MeasurementUnit}] += line.Amount
	}

	items := make([]models.ShoppingItem, 0, len(totals))
	for k, total := range totals {
		items = append(items, models.ShoppingItem{Name: k.name, MeasurementUnit: k.unit, Total: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// RenderShoppingList writes one "- name (total unit)" line per item.
func RenderShoppingList(items []models.ShoppingItem) string {
	var sb strings.Builder
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s (%d %s)\n", item.Name, item.Total, item.MeasurementUnit)
	}
	return sb.String()
}

// ShoppingListFilename is the attachment name offered for a user's list.
func ShoppingListFilename(user *models.User) string {
	return fmt.Sprintf("shopping_list_%s.txt", user.DisplayName())
}

// Download renders the shopping list of userID and the file name to serve it under.
func (s *ShoppingListService) Download(ctx context.Context, userID uint) (string, string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	lines, err := s.relations.ShoppingLines(ctx, userID)
	if err != nil {
		return "", "", err
	}
	metrics.ShoppingListDownloads.Inc()
	return ShoppingListFilename(user), RenderShoppingList(BuildShoppingList(lines)), nil
}
