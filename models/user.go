package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
)

// User is owned by the auth collaborator; this service only reads it.
type User struct {
	ID        int       `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile собирает данные для страницы пользователя.
type Profile struct {
	User          *User               `json:"user"`
	Tournaments   []Tournament        `json:"tournaments"`
	Subscriptions []SubscribedSummary `json:"subscriptions"`
}

type SubscribedSummary struct {
	SubscriptionID int        `json:"subscription_id"`
	Tournament     Tournament `json:"tournament"`
}
