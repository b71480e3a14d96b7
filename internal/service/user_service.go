package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/streamhub/backend/internal/apperr"
	"github.com/streamhub/backend/internal/domain"
	"github.com/streamhub/backend/internal/repository"
)

var ErrChannelNotFound = apperr.NotFound("Channel does not exist")

// UserService assembles the derived read views over the user, subscription
// and watch history collections.
type UserService struct {
	userRepo    repository.UserRepository
	subRepo     repository.SubscriptionRepository
	historyRepo repository.WatchHistoryRepository
}

func NewUserService(userRepo repository.UserRepository, subRepo repository.SubscriptionRepository, historyRepo repository.WatchHistoryRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		subRepo:     subRepo,
		historyRepo: historyRepo,
	}
}

// ChannelProfile joins the subscription edges in both directions and computes
// whether the requester is subscribed. The projection is a fixed allowlist;
// the membership test is a plain lookup against the subscriber edge.
func (s *UserService) ChannelProfile(ctx context.Context, username string, requesterID uuid.UUID) (*domain.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperr.Validation("Username is missing")
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, err
	}

	subscribers, err := s.subRepo.CountSubscribers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subRepo.CountSubscribedTo(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	isSubscribed, err := s.subRepo.IsSubscribed(ctx, requesterID, user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.ChannelProfile{
		ID:                        user.ID,
		Username:                  user.Username,
		FullName:                  user.FullName,
		Email:                     user.Email,
		Avatar:                    user.Avatar,
		CoverImage:                user.CoverImage,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

// WatchHistory returns the requester's history, newest first, each entry
// joined with its video and the owner's reduced projection.
func (s *UserService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]*domain.WatchHistoryItem, error) {
	return s.historyRepo.ListByUser(ctx, userID)
}
