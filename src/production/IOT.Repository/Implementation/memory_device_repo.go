package implementation

import (
	"context"
	"sync"
	"time"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type deviceKey struct {
	userID primitive.ObjectID
	slug   string
}

// MemoryDeviceRepository is an in-memory DeviceRepository. The single mutex
// makes ToggleSwitch a serialized read-modify-write, matching the atomicity
// the Mongo implementation gets from a conditional update.
type MemoryDeviceRepository struct {
	mu      sync.Mutex
	devices []iotmodels.Device
	bySlug  map[deviceKey]int
}

func NewMemoryDeviceRepository() *MemoryDeviceRepository {
	return &MemoryDeviceRepository{bySlug: make(map[deviceKey]int)}
}

func (r *MemoryDeviceRepository) CreateMany(ctx context.Context, devices []iotmodels.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, device := range devices {
		key := deviceKey{device.UserID, device.Slug}
		if _, exists := r.bySlug[key]; exists {
			// same semantics as the unique index: duplicate seeds are skipped
			continue
		}
		if device.ID.IsZero() {
			device.ID = primitive.NewObjectID()
		}
		if device.CreatedAt.IsZero() {
			device.CreatedAt = time.Now().UTC()
		}
		r.bySlug[key] = len(r.devices)
		r.devices = append(r.devices, device)
	}
	return nil
}

func (r *MemoryDeviceRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, device := range r.devices {
		if device.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryDeviceRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]iotmodels.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var devices []iotmodels.Device
	for _, device := range r.devices {
		if device.UserID == userID {
			devices = append(devices, device)
		}
	}
	return devices, nil
}

func (r *MemoryDeviceRepository) GetBySlug(ctx context.Context, userID primitive.ObjectID, slug string) (*iotmodels.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.bySlug[deviceKey{userID, slug}]
	if !ok {
		return nil, nil
	}
	device := r.devices[idx]
	return &device, nil
}

func (r *MemoryDeviceRepository) ToggleSwitch(ctx context.Context, userID primitive.ObjectID, slug string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.bySlug[deviceKey{userID, slug}]
	if !ok {
		return "", iotmodels.ErrDeviceNotFound
	}

	device := &r.devices[idx]
	if !device.IsSwitch() {
		return "", iotmodels.ErrDeviceNotFound
	}

	newState := iotmodels.StateOn
	if device.State != nil && *device.State == iotmodels.StateOn {
		newState = iotmodels.StateOff
	}
	device.State = &newState
	return newState, nil
}
