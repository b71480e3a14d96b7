package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/domain"
	"github.com/streamhub/backend/internal/query"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// SetRefreshToken overwrites the single stored refresh token value for the
	// user. An empty token clears it.
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *domain.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Video, error)
	Update(ctx context.Context, video *domain.Video) error
	Delete(ctx context.Context, id uuid.UUID) error
	// IncrementViews bumps the view counter by one without touching other columns.
	IncrementViews(ctx context.Context, id uuid.UUID) error
	// List runs an assembled pipeline over the videos table.
	List(ctx context.Context, p *query.Pipeline) ([]*domain.Video, *query.PageInfo, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountSubscribedTo(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
}

type LikeRepository interface {
	Create(ctx context.Context, like *domain.Like) error
	CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)
	Exists(ctx context.Context, videoID, userID uuid.UUID) (bool, error)
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error)
	DeleteByVideo(ctx context.Context, videoID uuid.UUID) error
}

type WatchHistoryRepository interface {
	// Record appends the video to the user's history with set semantics:
	// a repeat view refreshes WatchedAt instead of inserting a second row.
	Record(ctx context.Context, userID, videoID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WatchHistoryItem, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Repositories struct {
	User         UserRepository
	Video        VideoRepository
	Subscription SubscriptionRepository
	Like         LikeRepository
	Comment      CommentRepository
	WatchHistory WatchHistoryRepository
}
