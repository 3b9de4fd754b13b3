package interfaces

import (
	"context"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
)

type SessionRepository interface {
	// Create session
	Create(ctx context.Context, session *iotmodels.Session) error

	// GetByToken returns (nil, nil) for an unknown token. Callers still check
	// expiry; expired records may linger until the store reaps them.
	GetByToken(ctx context.Context, token string) (*iotmodels.Session, error)

	// Delete destroys the session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error
}
