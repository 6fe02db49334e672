package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UUID       string    `json:"uuid" bson:"uuid"`
	TelegramId int64     `json:"telegram_id" bson:"telegram_id" validate:"required"`
	Username   string    `json:"username" bson:"username" validate:"omitempty"`
	FirstName  string    `json:"first_name" bson:"first_name" validate:"omitempty"`
	Role       string    `json:"role" bson:"role" validate:"omitempty"`
	Blocked    bool      `json:"blocked" bson:"blocked"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	LastSeen   time.Time `json:"last_seen" bson:"lastSeen"`
}

const (
	UserRole  = "user"
	AdminRole = "admin"
)

func NewUser(telegramId int64, username, firstName string) *User {

	return &User{
		UUID:       uuid.NewString(),
		TelegramId: telegramId,
		Username:   username,
		FirstName:  firstName,
		Role:       UserRole,
		Blocked:    false,
		CreatedAt:  time.Now(),
		LastSeen:   time.Now(),
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}
