package models

import "time"

// User is an account that can author recipes and act as a relation endpoint.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(254);not null"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150);not null"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash
	Avatar    string    `json:"avatar" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// DisplayName is the name used in user-facing artifacts such as file names.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Subscription is an author <- subscriber edge. A user may not follow themselves.
type Subscription struct {
	ID           uint      `gorm:"primaryKey"`
	AuthorID     uint      `gorm:"not null;uniqueIndex:idx_subscription_pair;check:chk_subscriptions_not_self,author_id <> subscriber_id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_subscription_pair;index"`
	Author       *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Subscriber   *User     `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
}
