package iotmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Device types. The type is immutable after creation.
const (
	DeviceTypeSwitch = "switch"
	DeviceTypeSensor = "sensor"
)

// Switch states.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// Default device slugs seeded for every new account.
const (
	SlugDoorSala   = "door_sala"
	SlugTempSensor = "temp_sensor"
)

// Device represents a simulated home device owned by one user.
// Slug is unique per user, not globally. State holds "ON"/"OFF" for
// switches and is nil for sensors (sensor readings are derived, never stored).
type Device struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug" json:"slug"`
	Type      string             `bson:"type" json:"type"`
	State     *string            `bson:"state" json:"state"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// IsSwitch reports whether the device can be toggled.
func (d *Device) IsSwitch() bool {
	return d.Type == DeviceTypeSwitch
}

// DefaultDevices returns the two devices every fresh account starts with.
func DefaultDevices(userID primitive.ObjectID) []Device {
	off := StateOff
	now := time.Now().UTC()
	return []Device{
		{
			UserID:    userID,
			Name:      "Living Room Door",
			Slug:      SlugDoorSala,
			Type:      DeviceTypeSwitch,
			State:     &off, // OFF = closed
			CreatedAt: now,
		},
		{
			UserID:    userID,
			Name:      "Temperature Sensor",
			Slug:      SlugTempSensor,
			Type:      DeviceTypeSensor,
			State:     nil,
			CreatedAt: now,
		},
	}
}
