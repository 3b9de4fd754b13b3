package devices

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "gitlab.com/homesense1/iot.home_server/src/production/IOT.Config"
	logger "gitlab.com/homesense1/iot.home_server/src/production/IOT.Logger"
	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	implementation "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Implementation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&config.LoggingConfig{Level: "error", Format: "json", Output: "stderr"})
}

func newTestStateService(t *testing.T, seed bool) (*StateService, *implementation.MemoryEventRepository, primitive.ObjectID) {
	t.Helper()

	deviceService := NewDeviceService(implementation.NewMemoryDeviceRepository())
	eventRepo := implementation.NewMemoryEventRepository()
	eventService := NewEventService(eventRepo, nil, testLogger())
	stateService := NewStateService(deviceService, eventService)

	userID := primitive.NewObjectID()
	if seed {
		require.NoError(t, deviceService.SeedDefaults(context.Background(), userID))
	}
	return stateService, eventRepo, userID
}

func TestGetState_AssemblesDevicesAndReading(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newTestStateService(t, true)

	state, err := svc.GetState(ctx, userID)
	require.NoError(t, err)
	require.Len(t, state, 2)

	door, ok := state[iotmodels.SlugDoorSala]
	require.True(t, ok)
	assert.Equal(t, "Living Room Door", door.Name)
	assert.Equal(t, iotmodels.DeviceTypeSwitch, door.Type)
	require.NotNil(t, door.State)
	assert.Equal(t, iotmodels.StateOff, *door.State)
	assert.Nil(t, door.Reading)

	sensor, ok := state[iotmodels.SlugTempSensor]
	require.True(t, ok)
	assert.Equal(t, iotmodels.DeviceTypeSensor, sensor.Type)
	assert.Nil(t, sensor.State)
	require.NotNil(t, sensor.Reading)
	assert.GreaterOrEqual(t, *sensor.Reading, 18.0)
	assert.LessOrEqual(t, *sensor.Reading, 29.0)
	// one decimal place of precision
	assert.Equal(t, math.Round(*sensor.Reading*10)/10, *sensor.Reading)
}

func TestGetState_AppendsExactlyOneEventPerCall(t *testing.T) {
	ctx := context.Background()
	svc, eventRepo, userID := newTestStateService(t, true)

	for i := 1; i <= 3; i++ {
		_, err := svc.GetState(ctx, userID)
		require.NoError(t, err)

		events := eventRepo.All()
		require.Len(t, events, i)
		last := events[len(events)-1]
		assert.Equal(t, iotmodels.SlugTempSensor, last.Slug)
		assert.Equal(t, userID, last.UserID)
		require.NotNil(t, last.Unit)
		assert.Equal(t, "°C", *last.Unit)
		reading, ok := last.Value.(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, reading, 18.0)
		assert.LessOrEqual(t, reading, 29.0)
	}
}

func TestGetState_MissingTempSensorIsHarmless(t *testing.T) {
	ctx := context.Background()
	svc, _, userID := newTestStateService(t, false)

	// the user owns no temp_sensor device; the reading must simply be dropped
	state, err := svc.GetState(ctx, userID)
	require.NoError(t, err)
	_, ok := state[iotmodels.SlugTempSensor]
	assert.False(t, ok)
}

func TestToggleDevice_ReturnsStateAndRecordsEvent(t *testing.T) {
	ctx := context.Background()
	svc, eventRepo, userID := newTestStateService(t, true)

	newState, err := svc.ToggleDevice(ctx, userID, iotmodels.SlugDoorSala)
	require.NoError(t, err)
	assert.Equal(t, iotmodels.StateOn, newState)

	events := eventRepo.All()
	require.Len(t, events, 1)
	assert.Equal(t, iotmodels.SlugDoorSala, events[0].Slug)
	assert.Equal(t, iotmodels.StateOn, events[0].Value)
	assert.Nil(t, events[0].Unit)
}

func TestToggleDevice_FailuresRecordNothing(t *testing.T) {
	ctx := context.Background()
	svc, eventRepo, userID := newTestStateService(t, true)

	_, err := svc.ToggleDevice(ctx, userID, iotmodels.SlugTempSensor)
	assert.ErrorIs(t, err, iotmodels.ErrNotSwitchable)

	_, err = svc.ToggleDevice(ctx, userID, "no_such_device")
	assert.ErrorIs(t, err, iotmodels.ErrDeviceNotFound)

	assert.Empty(t, eventRepo.All())
}

func TestSimulateTemperature_RangeAndPrecision(t *testing.T) {
	for i := 0; i < 1000; i++ {
		reading := SimulateTemperature()
		require.GreaterOrEqual(t, reading, 18.0)
		require.LessOrEqual(t, reading, 29.0)
		require.Equal(t, math.Round(reading*10)/10, reading)
	}
}
