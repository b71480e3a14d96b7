package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/streamhub/backend/internal/apperr"
	"github.com/streamhub/backend/internal/config"
	"github.com/streamhub/backend/internal/domain"
	"github.com/streamhub/backend/internal/media"
	"github.com/streamhub/backend/internal/repository"
)

var (
	ErrUserExists         = apperr.Conflict("User already exists")
	ErrUserNotFound       = apperr.NotFound("User does not exist")
	ErrInvalidCredentials = apperr.Unauthorized("Password is incorrect")
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenService
	store    media.Store
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenService, store media.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		store:    store,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	AvatarPath string
	CoverPath  string
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	for _, field := range []string{input.Username, input.Email, input.FullName, input.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, apperr.Validation("All fields are compulsory")
		}
	}
	if input.AvatarPath == "" {
		return nil, apperr.Validation("Avatar is required")
	}

	existing, err := s.userRepo.GetByUsernameOrEmail(ctx, strings.ToLower(input.Username), input.Email)
	if err == nil && existing != nil {
		return nil, ErrUserExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	avatar, err := s.store.Upload(ctx, input.AvatarPath)
	if err != nil {
		log.Printf("ERROR [auth.Register] avatar upload failed: %v", err)
		return nil, apperr.Validation("Avatar is required")
	}

	coverURL := ""
	if input.CoverPath != "" {
		cover, err := s.store.Upload(ctx, input.CoverPath)
		if err != nil {
			log.Printf("ERROR [auth.Register] cover image upload failed: %v", err)
		} else {
			coverURL = cover.URL
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     strings.ToLower(input.Username),
		Email:        input.Email,
		FullName:     input.FullName,
		Avatar:       avatar.URL,
		CoverImage:   coverURL,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if input.Username == "" && input.Email == "" {
		return nil, apperr.Validation("Username or email is required")
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, strings.ToLower(input.Username), input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.Revoke(ctx, userID)
}

// Refresh rotates a presented refresh token for a new pair. Single-use: the
// presented token is superseded by the stored overwrite inside Issue.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*AuthResult, error) {
	if presented == "" {
		return nil, ErrUnauthorized
	}
	user, pair, err := s.tokens.Rotate(ctx, presented)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return apperr.Validation("Old and new passwords are required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperr.Validation("Old password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)
	return s.userRepo.Update(ctx, user)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullName, email string) (*domain.User, error) {
	if fullName == "" || email == "" {
		return nil, apperr.Validation("All fields are required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FullName = fullName
	user.Email = email
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateAvatar uploads the new image, persists the URL and then deletes the
// replaced object best-effort.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, "Avatar is missing", func(user *domain.User, url string) string {
		old := user.Avatar
		user.Avatar = url
		return old
	})
}

func (s *AuthService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error) {
	return s.updateImage(ctx, userID, localPath, "Cover image is missing", func(user *domain.User, url string) string {
		old := user.CoverImage
		user.CoverImage = url
		return old
	})
}

func (s *AuthService) updateImage(ctx context.Context, userID uuid.UUID, localPath, missingMsg string, swap func(*domain.User, string) string) (*domain.User, error) {
	if localPath == "" {
		return nil, apperr.Validation(missingMsg)
	}

	uploaded, err := s.store.Upload(ctx, localPath)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while uploading the image, please try again", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	old := swap(user, uploaded.URL)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if old != "" && old != uploaded.URL {
		if err := s.store.Delete(ctx, old, media.KindImage); err != nil {
			log.Printf("ERROR [auth.updateImage] failed to delete replaced image: %v", err)
		}
	}
	return user, nil
}
