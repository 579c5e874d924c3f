package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blog/internal/imaging"
	"blog/internal/models"
	"blog/internal/repositories"
	"blog/internal/security"
)

// UserService handles registration, login and profile changes.
type UserService struct {
	repo    repositories.UserRepository
	hasher  *security.Hasher
	resizer imaging.Resizer
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, hasher *security.Hasher, resizer imaging.Resizer) *UserService {
	return &UserService{
		repo:    repo,
		hasher:  hasher,
		resizer: resizer,
	}
}

// RegisterInput carries an already validated signup form.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
	Email     string
	Avatar    []byte
}

// NewUser builds an unsaved user with a hashed credential.
func (s *UserService) NewUser(username, firstName, lastName, password, email string) *models.User {
	return &models.User{
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: s.hasher.HashPassword(username, password, ""),
	}
}

// Register creates and stores a new user. A taken username yields
// models.ErrConflict; an undecodable avatar yields models.ErrInvalidImage and
// nothing is stored.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := s.NewUser(in.Username, in.FirstName, in.LastName, in.Password, in.Email)

	if len(in.Avatar) > 0 {
		avatar, err := imaging.DeriveAvatar(s.resizer, in.Avatar)
		if err != nil {
			return nil, err
		}
		user.AvatarImage = avatar
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Printf("Registered user %s", user.ID)
	return user, nil
}

// UsernameInUse returns the user holding username, or nil when it is free.
func (s *UserService) UsernameInUse(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login returns the user whose credentials match. Unknown usernames and wrong
// passwords both yield models.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.VerifyPassword(user.PasswordHash, username, password) {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ChangeSettings applies a partial profile update and stores it once.
// Password changes are re-hashed and avatars are cropped to a square. The
// avatar is resized before anything changes so a bad upload leaves the user
// untouched.
func (s *UserService) ChangeSettings(ctx context.Context, userID string, settings models.UserSettings) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings.Empty() {
		return user, nil
	}

	var avatar []byte
	if settings.Avatar != nil {
		avatar, err = imaging.DeriveAvatar(s.resizer, settings.Avatar)
		if err != nil {
			return nil, err
		}
	}

	if settings.FirstName != nil {
		user.FirstName = *settings.FirstName
	}
	if settings.LastName != nil {
		user.LastName = *settings.LastName
	}
	if settings.Password != nil {
		user.PasswordHash = s.hasher.HashPassword(user.Username, *settings.Password, "")
	}
	if settings.Email != nil {
		user.Email = *settings.Email
	}
	if avatar != nil {
		user.AvatarImage = avatar
	}
	if settings.Bio != nil {
		user.Bio = *settings.Bio
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return user, nil
}

// ListAuthors returns every user ordered by first and last name.
func (s *UserService) ListAuthors(ctx context.Context) ([]models.User, error) {
	return s.repo.ListByName(ctx)
}
