package models

import "time"

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SetPasswordRequest changes the password of the current user.
type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// AvatarRequest sets the avatar reference of the current user.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,max=255"`
}

// IngredientAmount is one requested recipe line.
type IngredientAmount struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"required,min=1"`
}

// RecipeCreateRequest carries a complete recipe draft.
type RecipeCreateRequest struct {
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint             `json:"tags" validate:"required,min=1"`
	Image       string             `json:"image" validate:"required"`
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"required,min=1"`
}

// RecipeUpdateRequest is a partial update. A nil field was not supplied;
// a supplied Ingredients or Tags list replaces the whole set.
type RecipeUpdateRequest struct {
	Ingredients *[]IngredientAmount `json:"ingredients,omitempty"`
	Tags        *[]uint             `json:"tags,omitempty"`
	Image       *string             `json:"image,omitempty"`
	Name        *string             `json:"name,omitempty" validate:"omitempty,max=256"`
	Text        *string             `json:"text,omitempty"`
	CookingTime *int                `json:"cooking_time,omitempty"`
}

// UserResponse is the public profile of a user as seen by the requester.
type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

// NewUserResponse builds the profile view of u.
func NewUserResponse(u *User, isSubscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.Avatar,
	}
}

// RecipeIngredientResponse is one hydrated recipe line.
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeFlags are the per-viewer relation flags of a recipe.
type RecipeFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
}

// RecipeResponse is the fully hydrated recipe.
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []Tag                      `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// NewRecipeResponse expects r to be loaded with its author, lines and tags.
func NewRecipeResponse(r *Recipe, flags RecipeFlags, authorFollowed bool) RecipeResponse {
	resp := RecipeResponse{
		ID:               r.ID,
		Tags:             r.Tags(),
		Ingredients:      make([]RecipeIngredientResponse, 0, len(r.Ingredients)),
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	if r.Author != nil {
		resp.Author = NewUserResponse(r.Author, authorFollowed)
	}
	for _, line := range r.Ingredients {
		item := RecipeIngredientResponse{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		resp.Ingredients = append(resp.Ingredients, item)
	}
	return resp
}

// RecipeSummary is the short recipe form returned by relation and subscription endpoints.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeSummary(r *Recipe) RecipeSummary {
	return RecipeSummary{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// SubscriptionResponse is a followed author with a preview of their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// Page is a paginated result set.
type Page[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}

// Event is a domain event published after a successful write.
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

// Domain event types.
const (
	EventRecipeCreated       = "recipe.created"
	EventRecipeUpdated       = "recipe.updated"
	EventRecipeDeleted       = "recipe.deleted"
	EventRelationAdded       = "relation.added"
	EventRelationRemoved     = "relation.removed"
	EventSubscriptionCreated = "subscription.created"
	EventSubscriptionDeleted = "subscription.deleted"
)
