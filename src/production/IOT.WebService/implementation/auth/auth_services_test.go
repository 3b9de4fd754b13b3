package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	implementation "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Implementation"
	devices "gitlab.com/homesense1/iot.home_server/src/production/IOT.WebService/implementation/devices"
)

func newTestAuthService() (*AuthService, *devices.DeviceService) {
	deviceService := devices.NewDeviceService(implementation.NewMemoryDeviceRepository())
	return NewAuthService(implementation.NewMemoryUserRepository(), deviceService), deviceService
}

func TestRegister_CreatesUserAndDefaultDevices(t *testing.T) {
	ctx := context.Background()
	svc, deviceService := newTestAuthService()

	user, err := svc.Register(ctx, "Ana", "Ana@X.com", "pw123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@x.com", user.Email)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	assert.False(t, user.ID.IsZero())

	list, err := deviceService.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	door := list[0]
	assert.Equal(t, iotmodels.SlugDoorSala, door.Slug)
	assert.Equal(t, iotmodels.DeviceTypeSwitch, door.Type)
	require.NotNil(t, door.State)
	assert.Equal(t, iotmodels.StateOff, *door.State)

	sensor := list[1]
	assert.Equal(t, iotmodels.SlugTempSensor, sensor.Slug)
	assert.Equal(t, iotmodels.DeviceTypeSensor, sensor.Type)
	assert.Nil(t, sensor.State)
}

func TestRegister_ValidationFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@x.com", "pw"},
		{"blank name", "   ", "a@x.com", "pw"},
		{"empty email", "Ana", "", "pw"},
		{"blank email", "Ana", "  ", "pw"},
		{"empty password", "Ana", "a@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, iotmodels.ErrValidation)
		})
	}
}

func TestRegister_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	_, err := svc.Register(ctx, "Ana", "ana@x.com", "pw123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Name", "  ANA@X.COM ", "other-password")
	assert.ErrorIs(t, err, iotmodels.ErrDuplicateEmail)
}

func TestRegister_TriggersSeedingExactlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, deviceService := newTestAuthService()

	user, err := svc.Register(ctx, "Ana", "ana@x.com", "pw123")
	require.NoError(t, err)

	// a second seeding pass must be a no-op
	require.NoError(t, deviceService.SeedDefaults(ctx, user.ID))

	list, err := deviceService.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	registered, err := svc.Register(ctx, "Ana", "ana@x.com", "pw123")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "ana@x.com", "pw123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("email is normalized", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, " ANA@x.COM ", "pw123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPassErr := svc.Authenticate(ctx, "ana@x.com", "nope")
		_, unknownErr := svc.Authenticate(ctx, "nobody@x.com", "pw123")

		assert.ErrorIs(t, wrongPassErr, iotmodels.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownErr, iotmodels.ErrInvalidCredentials)
		assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
	})
}
