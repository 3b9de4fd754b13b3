package auth

import (
	"context"
	"fmt"
	"strings"

	iotmodels "gitlab.com/homesense1/iot.home_server/src/production/IOT.Models"
	interfaces "gitlab.com/homesense1/iot.home_server/src/production/IOT.Repository/Interfaces"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"golang.org/x/crypto/bcrypt"
)

// DeviceSeeder creates a user's default devices after registration.
type DeviceSeeder interface {
	SeedDefaults(ctx context.Context, userID primitive.ObjectID) error
}

// AuthService aggregates credential operations
type AuthService struct {
	userRepo interfaces.UserRepository
	seeder   DeviceSeeder
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo interfaces.UserRepository, seeder DeviceSeeder) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		seeder:   seeder,
	}
}

// Register registers a new user and seeds their default devices.
// Exactly one user and, transitively, two devices are created.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*iotmodels.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, iotmodels.ErrValidation
	}

	// Friendly pre-check; the unique index on email catches the race.
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, iotmodels.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, iotmodels.NewUser(name, email, string(hashedPassword)))
	if err != nil {
		return nil, err
	}

	if err := s.seeder.SeedDefaults(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to seed default devices: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials. An unknown email and a wrong password
// return the same error so the endpoint cannot enumerate users.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*iotmodels.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if user == nil {
		return nil, iotmodels.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, iotmodels.ErrInvalidCredentials
	}

	return user, nil
}

// NormalizeEmail trims and lower-cases an email for lookups and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
