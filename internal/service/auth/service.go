package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/everpath/mastery-api/internal/domain"
	"github.com/everpath/mastery-api/internal/store"
)

// Service handles learner registration and login.
type Service struct {
	learners store.LearnerStore
	hasher   PasswordHasher
	jwt      JWTService
	logger   *slog.Logger
}

// NewService creates the auth service. All dependencies are required.
func NewService(learners store.LearnerStore, hasher PasswordHasher, jwt JWTService, logger *slog.Logger) *Service {
	if learners == nil {
		panic("learner store cannot be nil")
	}
	if hasher == nil {
		panic("password hasher cannot be nil")
	}
	if jwt == nil {
		panic("jwt service cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Service{
		learners: learners,
		hasher:   hasher,
		jwt:      jwt,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Register creates a learner account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.Learner, string, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	learner, err := domain.NewLearner(name, email, hashed)
	if err != nil {
		return nil, "", err
	}

	if err := s.learners.Create(ctx, learner); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("creating learner: %w", err)
	}

	token, err := s.jwt.GenerateToken(ctx, learner.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "learner registered",
		slog.String("learner_id", learner.ID.String()))
	return learner, token, nil
}

// Login verifies the credentials and returns the learner with a signed
// token. A wrong email and a wrong password both map to
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Learner, string, error) {
	learner, err := s.learners.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrLearnerNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up learner: %w", err)
	}

	if err := s.hasher.Compare(learner.HashedPassword, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(ctx, learner.ID)
	if err != nil {
		return nil, "", err
	}
	return learner, token, nil
}
