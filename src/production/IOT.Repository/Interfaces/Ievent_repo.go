package interfaces

import (
	"context"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
)

type EventRepository interface {
	// Insert appends one event. The log is append-only; nothing updates or
	// deletes events.
	Insert(ctx context.Context, event iotmodels.Event) error
}
