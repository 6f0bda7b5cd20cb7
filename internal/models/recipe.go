package models

import "time"

// Ingredient is a catalog entry. The same name may exist under several units.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"type:varchar(128);not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(64);not null;uniqueIndex:idx_ingredient_name_unit"`
}

// Tag is a catalog label attached to recipes.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(32);not null;uniqueIndex"`
	Slug string `json:"slug" gorm:"type:varchar(32);not null;uniqueIndex"`
}

// Recipe is the aggregate root. ShortLink is nil only inside the creation transaction.
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"not null;index"`
	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"type:varchar(256);not null"`
	Image       string             `gorm:"type:text"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1"`
	ShortLink   *string            `gorm:"type:varchar(32);uniqueIndex"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	TagLinks    []RecipeTag        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"index"`
	UpdatedAt   time.Time
}

// Token returns the assigned short link token, or "" before assignment.
func (r *Recipe) Token() string {
	if r.ShortLink == nil {
		return ""
	}
	return *r.ShortLink
}

// Tags flattens the preloaded tag links.
func (r *Recipe) Tags() []Tag {
	tags := make([]Tag, 0, len(r.TagLinks))
	for _, link := range r.TagLinks {
		if link.Tag != nil {
			tags = append(tags, *link.Tag)
		}
	}
	return tags
}

// RecipeIngredient is one (ingredient, amount) line. An ingredient appears at most once per recipe.
type RecipeIngredient struct {
	ID           uint        `gorm:"primaryKey"`
	RecipeID     uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair"`
	IngredientID uint        `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair;index"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int         `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1"`
}

// RecipeTag links a recipe to a tag.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey;index"`
	Tag      *Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

// RelationKind discriminates the user -> recipe membership edges.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
)

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	return k == RelationFavorite || k == RelationShoppingCart
}

// Label is the human-readable collection name.
func (k RelationKind) Label() string {
	switch k {
	case RelationFavorite:
		return "favorites"
	case RelationShoppingCart:
		return "shopping cart"
	default:
		return string(k)
	}
}

// RecipeRelation is a (user, recipe) edge of a given kind, unique per kind.
type RecipeRelation struct {
	ID        uint         `gorm:"primaryKey"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_relation_user_recipe_kind"`
	RecipeID  uint         `gorm:"not null;uniqueIndex:idx_relation_user_recipe_kind;index"`
	Kind      RelationKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_relation_user_recipe_kind"`
	User      *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe    *Recipe      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// ShoppingLine is one raw ingredient line of a carted recipe, before aggregation.
type ShoppingLine struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingItem is one aggregated shopping list entry.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// RecipeFilter narrows recipe listings. ViewerID is zero for anonymous callers.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         uint
	ViewerID         uint
	IsFavorited      bool
	IsInShoppingCart bool
	Page             int
	Limit            int
}
