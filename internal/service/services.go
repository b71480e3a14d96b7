package service

import (
	"github.com/streamhub/backend/internal/config"
	"github.com/streamhub/backend/internal/media"
	"github.com/streamhub/backend/internal/repository"
)

type Services struct {
	Token *TokenService
	Auth  *AuthService
	User  *UserService
	Video *VideoService
}

func NewServices(repos *repository.Repositories, store media.Store, cfg *config.Config) *Services {
	tokens := NewTokenService(repos.User, cfg)
	return &Services{
		Token: tokens,
		Auth:  NewAuthService(repos.User, tokens, store, cfg),
		User:  NewUserService(repos.User, repos.Subscription, repos.WatchHistory),
		Video: NewVideoService(repos.Video, repos.Like, repos.Comment, repos.Subscription, repos.WatchHistory, store),
	}
}
