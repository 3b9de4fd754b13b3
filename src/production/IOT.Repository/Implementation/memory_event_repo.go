package implementation

import (
	"context"
	"sync"
	"time"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryEventRepository is an in-memory EventRepository. All exposes the
// recorded events so tests can assert on the append-only log.
type MemoryEventRepository struct {
	mu     sync.Mutex
	events []iotmodels.Event
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{}
}

func (r *MemoryEventRepository) Insert(ctx context.Context, event iotmodels.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	r.events = append(r.events, event)
	return nil
}

// All returns a copy of the recorded events in insertion order.
func (r *MemoryEventRepository) All() []iotmodels.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]iotmodels.Event, len(r.events))
	copy(out, r.events)
	return out
}
