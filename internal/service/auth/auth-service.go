package auth

import (
	"fmt"
	"linklet/entity"
	"linklet/internal/lib/sl"
	"log/slog"
)

type Repository interface {
	UpsertUser(user entity.User) error
	GetUser(telegramId int64) (*entity.User, error)
}

// AuthService registers and looks up Telegram users. Unknown users are
// auto-registered on first contact.
type AuthService struct {
	repository Repository
	log        *slog.Logger
}

func NewAuthService(logger *slog.Logger) *AuthService {
	return &AuthService{
		log: logger.With(sl.Module("auth")),
	}
}

func (s *AuthService) SetRepository(repository Repository) {
	s.repository = repository
}

// EnsureUser returns the known user for a Telegram id, creating a record
// on first contact.
func (s *AuthService) EnsureUser(telegramId int64, username, firstName string) (*entity.User, error) {
	if s.repository == nil {
		return nil, fmt.Errorf("repository not configured")
	}

	user, err := s.repository.GetUser(telegramId)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user = entity.NewUser(telegramId, username, firstName)
	if err := s.repository.UpsertUser(*user); err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.log.With(
		slog.Int64("telegram_id", telegramId),
		slog.String("username", username),
	).Info("new user registered")

	return user, nil
}

// GetUser returns the user for a Telegram id, nil when unknown.
func (s *AuthService) GetUser(telegramId int64) (*entity.User, error) {
	if s.repository == nil {
		return nil, fmt.Errorf("repository not configured")
	}
	return s.repository.GetUser(telegramId)
}
