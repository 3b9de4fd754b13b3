package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	interfaces "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Interfaces"
)

// Service issues and resolves opaque session tokens. Tokens are server-trusted
// records; the cookie only carries the token.
type Service struct {
	sessionRepo interfaces.SessionRepository
	duration    time.Duration
}

// NewService creates a new session service
func NewService(sessionRepo interfaces.SessionRepository, duration time.Duration) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		duration:    duration,
	}
}

// Start creates a fresh session for the user. Existing sessions for the same
// user stay valid; concurrent sessions are allowed.
func (s *Service) Start(ctx context.Context, user *iotmodels.User) (*iotmodels.Session, error) {
	now := time.Now().UTC()
	session := &iotmodels.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		UserName:  user.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(s.duration),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Get resolves a token to its session, or nil when the token is unknown or
// the session has expired.
func (s *Service) Get(ctx context.Context, token string) (*iotmodels.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	if session.Expired(time.Now().UTC()) {
		// lazily drop the stale record; the TTL index reaps the rest
		_ = s.sessionRepo.Delete(ctx, token)
		return nil, nil
	}

	return session, nil
}

// End destroys a session. Ending an already-absent session is not an error.
func (s *Service) End(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}
