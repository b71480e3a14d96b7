package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/streamhub/backend/internal/domain"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	fullName string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		fullName: "Test User",
		password: "testpassword123",
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		FullName:     b.fullName,
		Avatar:       "https://media.test/avatar-" + b.username + ".png",
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// VideoBuilder creates test videos with a builder pattern
type VideoBuilder struct {
	ownerID     uuid.UUID
	title       string
	description string
	isPublished bool
	views       int64
	createdAt   time.Time
}

func NewVideoBuilder(ownerID uuid.UUID) *VideoBuilder {
	suffix := uuid.New().String()[:8]
	return &VideoBuilder{
		ownerID:     ownerID,
		title:       fmt.Sprintf("Test video %s", suffix),
		description: "A test video",
		isPublished: true,
		createdAt:   time.Now(),
	}
}

func (b *VideoBuilder) WithTitle(title string) *VideoBuilder {
	b.title = title
	return b
}

func (b *VideoBuilder) WithDescription(description string) *VideoBuilder {
	b.description = description
	return b
}

func (b *VideoBuilder) Unpublished() *VideoBuilder {
	b.isPublished = false
	return b
}

func (b *VideoBuilder) WithViews(views int64) *VideoBuilder {
	b.views = views
	return b
}

func (b *VideoBuilder) WithCreatedAt(ts time.Time) *VideoBuilder {
	b.createdAt = ts
	return b
}

func (b *VideoBuilder) Build(t *testing.T, db *gorm.DB) *domain.Video {
	t.Helper()

	video := &domain.Video{
		ID:          uuid.New(),
		OwnerID:     b.ownerID,
		VideoFile:   "https://media.test/" + uuid.New().String() + ".mp4",
		Thumbnail:   "https://media.test/" + uuid.New().String() + ".png",
		Title:       b.title,
		Description: b.description,
		Duration:    42,
		Views:       b.views,
		IsPublished: b.isPublished,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}

	if err := db.Create(video).Error; err != nil {
		t.Fatalf("failed to create video: %v", err)
	}

	return video
}

// Subscribe creates a subscription edge between two users.
func Subscribe(t *testing.T, db *gorm.DB, subscriberID, channelID uuid.UUID) {
	t.Helper()

	sub := &domain.Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
}

// TempUpload writes a throwaway file for handlers and services that expect a
// spooled local path.
func TempUpload(t *testing.T, ext string) string {
	t.Helper()

	f, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		t.Fatalf("failed to create temp upload: %v", err)
	}
	if _, err := f.WriteString("test content"); err != nil {
		t.Fatalf("failed to write temp upload: %v", err)
	}
	f.Close()

	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}
