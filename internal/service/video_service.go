package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/streamhub/backend/internal/apperr"
	"github.com/streamhub/backend/internal/domain"
	"github.com/streamhub/backend/internal/media"
	"github.com/streamhub/backend/internal/query"
	"github.com/streamhub/backend/internal/repository"
)

var (
	ErrVideoNotFound = apperr.NotFound("Video not found")
	// Ownership failures map to 401, not 403.
	ErrNotVideoOwner = apperr.Unauthorized("Unauthorized request")
)

// sortColumns is the allowlist of request-facing sort keys.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type VideoService struct {
	videoRepo   repository.VideoRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	subRepo     repository.SubscriptionRepository
	historyRepo repository.WatchHistoryRepository
	store       media.Store
}

func NewVideoService(
	videoRepo repository.VideoRepository,
	likeRepo repository.LikeRepository,
	commentRepo repository.CommentRepository,
	subRepo repository.SubscriptionRepository,
	historyRepo repository.WatchHistoryRepository,
	store media.Store,
) *VideoService {
	return &VideoService{
		videoRepo:   videoRepo,
		likeRepo:    likeRepo,
		commentRepo: commentRepo,
		subRepo:     subRepo,
		historyRepo: historyRepo,
		store:       store,
	}
}

type PublishInput struct {
	OwnerID       uuid.UUID
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

func (s *VideoService) Publish(ctx context.Context, input PublishInput) (*domain.Video, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.Validation("Title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperr.Validation("Description is required")
	}
	if input.VideoPath == "" {
		return nil, apperr.Validation("Video is required")
	}

	uploaded, err := s.store.Upload(ctx, input.VideoPath)
	if err != nil {
		log.Printf("ERROR [video.Publish] video upload failed: %v", err)
		return nil, apperr.Validation("Could not upload the video to cloud, please try again")
	}

	thumbnailURL := ""
	if input.ThumbnailPath != "" {
		thumb, err := s.store.Upload(ctx, input.ThumbnailPath)
		if err != nil {
			log.Printf("ERROR [video.Publish] thumbnail upload failed: %v", err)
		} else {
			thumbnailURL = thumb.URL
		}
	}

	info, _ := json.Marshal(uploaded.Info)
	video := &domain.Video{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		VideoFile:   uploaded.URL,
		Thumbnail:   thumbnailURL,
		Title:       input.Title,
		Description: input.Description,
		Duration:    uploaded.Duration,
		IsPublished: true,
		UploadInfo:  info,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// Get is the composed detail read: owner projection, engagement counts and
// the requester-relative booleans. A successful read bumps the view counter
// and records the watch history entry; the two writes are independent and the
// history append is tolerated to fail (views may drift ahead of history).
func (s *VideoService) Get(ctx context.Context, videoID, requesterID uuid.UUID) (*domain.VideoDetail, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if !video.IsPublished && video.OwnerID != requesterID {
		return nil, ErrVideoNotFound
	}

	likes, err := s.likeRepo.CountByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.CountByVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	subscribers, err := s.subRepo.CountSubscribers(ctx, video.OwnerID)
	if err != nil {
		return nil, err
	}
	isLiked, err := s.likeRepo.Exists(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}
	isSubscribed, err := s.subRepo.IsSubscribed(ctx, requesterID, video.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, err
	}
	video.Views++
	if err := s.historyRepo.Record(ctx, requesterID, videoID); err != nil {
		log.Printf("ERROR [video.Get] failed to record watch history: %v", err)
	}

	detail := &domain.VideoDetail{
		Video:            *video,
		LikesCount:       likes,
		CommentsCount:    comments,
		SubscribersCount: subscribers,
		IsLiked:          isLiked,
		IsSubscribed:     isSubscribed,
	}
	if video.Owner != nil {
		detail.OwnerProfile = domain.VideoOwner{
			ID:       video.Owner.ID,
			Username: video.Owner.Username,
			FullName: video.Owner.FullName,
			Avatar:   video.Owner.Avatar,
		}
	}
	detail.Video.Owner = nil
	return detail, nil
}

type ListParams struct {
	Page    int
	Limit   int
	Query   string
	SortBy  string
	SortDir string
	OwnerID string
}

// List assembles the listing pipeline stage by stage. Only published videos
// are listable; an invalid owner filter fails the whole query.
func (s *VideoService) List(ctx context.Context, params ListParams) ([]*domain.Video, *query.PageInfo, error) {
	p := query.New(query.Match{Column: "is_published", Value: true})

	if params.OwnerID != "" {
		ownerID, err := domain.ParseID(params.OwnerID)
		if err != nil {
			return nil, nil, err
		}
		p.Add(query.Match{Column: "owner_id", Value: ownerID})
	}

	if strings.TrimSpace(params.Query) != "" {
		p.Add(query.Search{Columns: []string{"title", "description"}, Term: params.Query})
	}

	column := sortColumns["createdAt"]
	if params.SortBy != "" {
		col, ok := sortColumns[params.SortBy]
		if !ok {
			return nil, nil, apperr.Validation("Invalid sort key")
		}
		column = col
	}
	desc := true
	if params.SortDir != "" {
		switch params.SortDir {
		case "asc":
			desc = false
		case "desc":
			desc = true
		default:
			return nil, nil, apperr.Validation("Invalid sort direction")
		}
	}
	p.Add(query.Sort{Column: column, Desc: desc})

	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	p.Add(query.Paginate{Page: page, Limit: limit})

	return s.videoRepo.List(ctx, p)
}

func (s *VideoService) UpdateDetails(ctx context.Context, videoID, requesterID uuid.UUID, title, description string) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" || strings.TrimSpace(description) == "" {
		return nil, apperr.Validation("Title and description are required")
	}

	video.Title = title
	video.Description = description
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *VideoService) UpdateThumbnail(ctx context.Context, videoID, requesterID uuid.UUID, localPath string) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}
	if localPath == "" {
		return nil, apperr.Validation("Thumbnail is missing")
	}

	uploaded, err := s.store.Upload(ctx, localPath)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while uploading the thumbnail, please try again", err)
	}

	old := video.Thumbnail
	video.Thumbnail = uploaded.URL
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}

	if strings.TrimSpace(old) != "" && old != uploaded.URL {
		if err := s.store.Delete(ctx, old, media.KindImage); err != nil {
			log.Printf("ERROR [video.UpdateThumbnail] failed to delete replaced thumbnail: %v", err)
		}
	}
	return video, nil
}

func (s *VideoService) TogglePublish(ctx context.Context, videoID, requesterID uuid.UUID) (*domain.Video, error) {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.videoRepo.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// Delete removes the media objects, the dependent like and comment rows and
// the video row as independent operations with no compensating rollback. The
// first row-delete failure is surfaced; orphans are possible and accepted.
func (s *VideoService) Delete(ctx context.Context, videoID, requesterID uuid.UUID) error {
	video, err := s.ownedVideo(ctx, videoID, requesterID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, video.VideoFile, media.KindVideo); err != nil {
		log.Printf("ERROR [video.Delete] failed to delete video object: %v", err)
	}
	if strings.TrimSpace(video.Thumbnail) != "" {
		if err := s.store.Delete(ctx, video.Thumbnail, media.KindImage); err != nil {
			log.Printf("ERROR [video.Delete] failed to delete thumbnail object: %v", err)
		}
	}

	if err := s.likeRepo.DeleteByVideo(ctx, videoID); err != nil {
		return apperr.Internal("Something went wrong while deleting the video", err)
	}
	if err := s.commentRepo.DeleteByVideo(ctx, videoID); err != nil {
		return apperr.Internal("Something went wrong while deleting the video", err)
	}
	if err := s.videoRepo.Delete(ctx, videoID); err != nil {
		return apperr.Internal("Something went wrong while deleting the video", err)
	}
	return nil
}

// ownedVideo loads the video and enforces that the requester owns it. The
// ownership check runs before any field validation or mutation.
func (s *VideoService) ownedVideo(ctx context.Context, videoID, requesterID uuid.UUID) (*domain.Video, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	if video.OwnerID != requesterID {
		return nil, ErrNotVideoOwner
	}
	return video, nil
}
