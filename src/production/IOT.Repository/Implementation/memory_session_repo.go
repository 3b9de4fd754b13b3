package implementation

import (
	"context"
	"sync"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
)

// MemorySessionRepository is an in-memory SessionRepository.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]iotmodels.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]iotmodels.Session)}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *iotmodels.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.Token] = *session
	return nil
}

func (r *MemorySessionRepository) GetByToken(ctx context.Context, token string) (*iotmodels.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}
