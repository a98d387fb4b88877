package models

import (
	"time"
)

const (
	RoleClient  = "CLIENT"
	RoleArtisan = "ARTISAN"
	RoleAdmin   = "ADMIN"
)

const (
	AskingPending  = "PENDING"
	AskingAccepted = "ACCEPTED"
	AskingDeclined = "DECLINED"
	AskingDone     = "DONE"
)

type User struct {
	ID           string    `gorm:"primaryKey"              json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"    json:"email"`
	PasswordHash string    `gorm:"not null"                json:"-"`
	Role         string    `gorm:"not null"                json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ClientProfile struct {
	ID        string    `gorm:"primaryKey"           json:"id"`
	UserID    string    `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	City      string    `json:"city"`
	AvatarKey string    `json:"avatar_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ArtisanProfile struct {
	ID          string    `gorm:"primaryKey"           json:"id"`
	UserID      string    `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName string    `gorm:"not null"             json:"company_name"`
	Description string    `json:"description"`
	CategoryID  string    `gorm:"index"                json:"category_id"`
	City        string    `json:"city"`
	Phone       string    `json:"phone"`
	AvatarKey   string    `json:"avatar_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Category struct {
	ID   string `gorm:"primaryKey"           json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type Asking struct {
	ID          string    `gorm:"primaryKey"     json:"id"`
	ClientID    string    `gorm:"index;not null" json:"client_id"`
	ArtisanID   string    `gorm:"index;not null" json:"artisan_id"`
	Title       string    `gorm:"not null"       json:"title"`
	Description string    `json:"description"`
	Status      string    `gorm:"not null"       json:"status"`
	PhotoKeys   string    `json:"photo_keys,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Recommendation struct {
	ID        string    `gorm:"primaryKey"     json:"id"`
	ClientID  string    `gorm:"index;not null" json:"client_id"`
	ArtisanID string    `gorm:"index;not null" json:"artisan_id"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	ID        string    `gorm:"primaryKey"     json:"id"`
	Sender    string    `gorm:"index;not null" json:"sender"`
	Recipient string    `gorm:"index;not null" json:"recipient"`
	Body      string    `gorm:"not null"       json:"body"`
	SentAt    time.Time `gorm:"not null"       json:"sent_at"`
}
