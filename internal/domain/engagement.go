package domain

import (
	"time"

	"github.com/google/uuid"
)

type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VideoID   uuid.UUID `json:"videoId" gorm:"type:uuid;not null;index:idx_like_once,unique"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index:idx_like_once,unique"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	VideoID   uuid.UUID `json:"videoId" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchHistoryEntry records that a user watched a video. The unique index over
// (user_id, video_id) is what gives watch history its set semantics: repeat
// views update WatchedAt instead of inserting a second row.
type WatchHistoryEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index:idx_history_once,unique"`
	VideoID   uuid.UUID `json:"videoId" gorm:"type:uuid;not null;index:idx_history_once,unique"`
	WatchedAt time.Time `json:"watchedAt"`
}
