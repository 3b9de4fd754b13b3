package iotmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is an append-only record of a state change or a sensor reading.
// Slug is intentionally not a foreign key so events outlive device deletion.
// Value is either a numeric reading or the new switch state; Unit is nil for
// state changes.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Slug      string             `bson:"slug" json:"slug"`
	Value     interface{}        `bson:"value" json:"value"`
	Unit      *string            `bson:"unit" json:"unit"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
