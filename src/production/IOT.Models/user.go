package iotmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered account
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"` // PasswordHash is not exposed in JSON
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// NewUser creates a new User instance
func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email, // Note: callers normalize (trim + lowercase) before saving
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
