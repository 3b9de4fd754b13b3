package devices

import (
	"context"
	"math"
	"math/rand"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Simulated temperature range in °C.
const (
	tempMin = 18.0
	tempMax = 29.0
)

var celsius = "°C"

// DeviceState is one entry in the flat slug -> state mapping the state API
// returns. Reading is only present on the temperature sensor entry.
type DeviceState struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	State   *string  `json:"state"`
	Reading *float64 `json:"reading,omitempty"`
}

// StateService assembles current device states and drives toggles through
// the registry and the event log.
type StateService struct {
	devices *DeviceService
	events  *EventService
}

// NewStateService creates a new state service
func NewStateService(devices *DeviceService, events *EventService) *StateService {
	return &StateService{
		devices: devices,
		events:  events,
	}
}

// GetState returns every device's current state keyed by slug. Each call
// generates one fresh temperature reading and appends it to the event log
// under the temp_sensor slug. The reading is only attached to the payload
// when the user actually owns a temp_sensor device; a missing device must
// not break state assembly.
func (s *StateService) GetState(ctx context.Context, userID primitive.ObjectID) (map[string]DeviceState, error) {
	deviceList, err := s.devices.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	reading := SimulateTemperature()
	if err := s.events.Record(ctx, userID, iotmodels.SlugTempSensor, reading, &celsius); err != nil {
		return nil, err
	}

	state := make(map[string]DeviceState, len(deviceList))
	for _, d := range deviceList {
		state[d.Slug] = DeviceState{
			Name:  d.Name,
			Type:  d.Type,
			State: d.State,
		}
	}

	if entry, ok := state[iotmodels.SlugTempSensor]; ok {
		entry.Reading = &reading
		state[iotmodels.SlugTempSensor] = entry
	}

	return state, nil
}

// ToggleDevice flips a switch and records the transition.
func (s *StateService) ToggleDevice(ctx context.Context, userID primitive.ObjectID, slug string) (string, error) {
	newState, err := s.devices.Toggle(ctx, userID, slug)
	if err != nil {
		return "", err
	}

	if err := s.events.Record(ctx, userID, slug, newState, nil); err != nil {
		return "", err
	}

	return newState, nil
}

// SimulateTemperature draws a uniform reading in [18.0, 29.0] with one
// decimal place of precision.
func SimulateTemperature() float64 {
	return math.Round((tempMin+rand.Float64()*(tempMax-tempMin))*10) / 10
}
