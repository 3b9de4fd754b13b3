package devices

import (
	"context"
	"fmt"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	interfaces "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Interfaces"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeviceService manages a user's device registry
type DeviceService struct {
	deviceRepo interfaces.DeviceRepository
}

// NewDeviceService creates a new device service
func NewDeviceService(deviceRepo interfaces.DeviceRepository) *DeviceService {
	return &DeviceService{deviceRepo: deviceRepo}
}

// SeedDefaults creates the two default devices iff the user owns none.
// Calling it twice never duplicates devices: besides the count check, the
// repository skips duplicate (user_id, slug) inserts, which also covers two
// concurrent first-requests racing past the count.
func (s *DeviceService) SeedDefaults(ctx context.Context, userID primitive.ObjectID) error {
	count, err := s.deviceRepo.CountByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count devices: %w", err)
	}
	if count > 0 {
		return nil
	}

	return s.deviceRepo.CreateMany(ctx, iotmodels.DefaultDevices(userID))
}

// ListForUser returns the user's devices in insertion order.
func (s *DeviceService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]iotmodels.Device, error) {
	return s.deviceRepo.ListByUser(ctx, userID)
}

// Toggle flips the user's switch device with the given slug and returns the
// new state. The flip itself is atomic at the storage layer.
func (s *DeviceService) Toggle(ctx context.Context, userID primitive.ObjectID, slug string) (string, error) {
	device, err := s.deviceRepo.GetBySlug(ctx, userID, slug)
	if err != nil {
		return "", err
	}
	if device == nil {
		return "", iotmodels.ErrDeviceNotFound
	}
	if !device.IsSwitch() {
		return "", iotmodels.ErrNotSwitchable
	}

	return s.deviceRepo.ToggleSwitch(ctx, userID, slug)
}
