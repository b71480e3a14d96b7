package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/streamhub/backend/internal/domain"
)

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *likeRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) Exists(ctx context.Context, videoID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("video_id = ? AND user_id = ?", videoID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Like{}, "video_id = ?", videoID).Error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) CountByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) DeleteByVideo(ctx context.Context, videoID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Comment{}, "video_id = ?", videoID).Error
}

type watchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) *watchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

// Record upserts on the (user_id, video_id) unique index so a repeat view
// never produces a second history row.
func (r *watchHistoryRepository) Record(ctx context.Context, userID, videoID uuid.UUID) error {
	entry := &domain.WatchHistoryEntry{
		ID:        uuid.New(),
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
		}).
		Create(entry).Error
}

func (r *watchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WatchHistoryItem, error) {
	var entries []*domain.WatchHistoryEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	items := make([]*domain.WatchHistoryItem, 0, len(entries))
	for _, entry := range entries {
		var video domain.Video
		err := r.db.WithContext(ctx).
			Preload("Owner").
			First(&video, "id = ?", entry.VideoID).Error
		if err != nil {
			// The video row may have been deleted since it was watched.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		item := &domain.WatchHistoryItem{
			Video:     video,
			WatchedAt: entry.WatchedAt,
		}
		if video.Owner != nil {
			item.Owner = domain.VideoOwner{
				ID:       video.Owner.ID,
				Username: video.Owner.Username,
				FullName: video.Owner.FullName,
				Avatar:   video.Owner.Avatar,
			}
		}
		item.Video.Owner = nil
		items = append(items, item)
	}
	return items, nil
}

func (r *watchHistoryRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.WatchHistoryEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
