package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Video struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OwnerID     uuid.UUID      `json:"ownerId" gorm:"type:uuid;not null;index"`
	Owner       *User          `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	VideoFile   string         `json:"videoFile" gorm:"not null"`
	Thumbnail   string         `json:"thumbnail"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"not null"`
	Duration    float64        `json:"duration"`
	Views       int64          `json:"views" gorm:"default:0"`
	IsPublished bool           `json:"isPublished" gorm:"default:true"`
	UploadInfo  datatypes.JSON `json:"uploadInfo,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// VideoDetail is the composed read for a single video: owner projection,
// engagement counts and the requester-relative booleans.
type VideoDetail struct {
	Video
	OwnerProfile     VideoOwner `json:"ownerProfile"`
	LikesCount       int64      `json:"likesCount"`
	CommentsCount    int64      `json:"commentsCount"`
	SubscribersCount int64      `json:"subscribersCount"`
	IsLiked          bool       `json:"isLiked"`
	IsSubscribed     bool       `json:"isSubscribed"`
}

// WatchHistoryItem joins a history entry with its video and the video owner's
// reduced projection.
type WatchHistoryItem struct {
	Video     Video      `json:"video"`
	Owner     VideoOwner `json:"owner"`
	WatchedAt time.Time  `json:"watchedAt"`
}
