package interfaces

import (
	"context"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	// Create user. Returns ErrDuplicateEmail when the normalized email is
	// already taken (unique index makes the check-then-insert race harmless).
	Create(ctx context.Context, user *iotmodels.User) (*iotmodels.User, error)

	// Read users. A miss is (nil, nil).
	GetByID(ctx context.Context, userID primitive.ObjectID) (*iotmodels.User, error)
	GetByEmail(ctx context.Context, email string) (*iotmodels.User, error)
}
