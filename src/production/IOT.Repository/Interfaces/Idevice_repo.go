package interfaces

import (
	"context"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeviceRepository interface {
	// CreateMany inserts devices; duplicate (user_id, slug) pairs are skipped,
	// not errors, so concurrent default seeding stays idempotent.
	CreateMany(ctx context.Context, devices []iotmodels.Device) error

	// Read devices. GetBySlug misses are (nil, nil). ListByUser returns
	// devices in insertion order.
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]iotmodels.Device, error)
	GetBySlug(ctx context.Context, userID primitive.ObjectID, slug string) (*iotmodels.Device, error)

	// ToggleSwitch atomically flips ON<->OFF on the user's switch device with
	// the given slug and returns the new state. Returns ErrDeviceNotFound when
	// no matching switch exists. The flip is a single conditional update at
	// the storage layer so concurrent toggles never lose an update.
	ToggleSwitch(ctx context.Context, userID primitive.ObjectID, slug string) (string, error)
}
