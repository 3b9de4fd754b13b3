package devices

import (
	"context"
	"fmt"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	interfaces "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Interfaces"
	logger "gitlab.com/homesense1/iot.home_server/src/production/IOT.Logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventPublisher fans a recorded event out to an external broker.
// Implementations must not block request handling.
type EventPublisher interface {
	Publish(event iotmodels.Event)
}

// EventService appends to the audit log. The log records every switch-state
// change and every sensor reading.
type EventService struct {
	eventRepo interfaces.EventRepository
	publisher EventPublisher
	logger    *logger.Logger
}

// NewEventService creates a new event service. publisher may be nil when no
// broker is configured.
func NewEventService(eventRepo interfaces.EventRepository, publisher EventPublisher, logger *logger.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Record appends one event. Unit is nil for switch-state changes. Broker
// fan-out is best effort and never fails the append.
func (s *EventService) Record(ctx context.Context, userID primitive.ObjectID, slug string, value interface{}, unit *string) error {
	event := iotmodels.Event{
		UserID: userID,
		Slug:   slug,
		Value:  value,
		Unit:   unit,
	}

	if err := s.eventRepo.Insert(ctx, event); err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(event)
	}

	return nil
}
