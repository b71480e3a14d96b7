package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/api/middleware"
	"github.com/streamhub/backend/internal/apperr"
	"github.com/streamhub/backend/internal/config"
	"github.com/streamhub/backend/internal/domain"
	"github.com/streamhub/backend/internal/query"
	"github.com/streamhub/backend/internal/service"
)

type VideoHandler struct {
	videos *service.VideoService
	cfg    *config.Config
}

func NewVideoHandler(videos *service.VideoService, cfg *config.Config) *VideoHandler {
	return &VideoHandler{videos: videos, cfg: cfg}
}

type UpdateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VideoListPayload carries one page of listings with its pagination envelope.
type VideoListPayload struct {
	Docs []*domain.Video `json:"docs"`
	*query.PageInfo
}

// List handles GET /videos with page, limit, query, sortBy, sortType and
// userId parameters.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.ListParams{
		Query:   q.Get("query"),
		SortBy:  q.Get("sortBy"),
		SortDir: q.Get("sortType"),
		OwnerID: q.Get("userId"),
	}
	if v := q.Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			params.Page = parsed
		}
	}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			params.Limit = parsed
		}
	}

	videos, info, err := h.videos.List(r.Context(), params)
	if err != nil {
		respondError(w, "videos.List", err)
		return
	}

	respondJSON(w, http.StatusOK, VideoListPayload{Docs: videos, PageInfo: info}, "Videos fetched successfully")
}

// Publish accepts a multipart form: title, description, videoFile (required)
// and thumbnail (optional).
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, "videos.Publish", service.ErrUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "videos.Publish", apperr.Validation("Invalid multipart form"))
		return
	}

	videoPath, err := spoolFormFile(r, "videoFile", h.cfg.UploadTempDir)
	if err != nil {
		respondError(w, "videos.Publish", err)
		return
	}
	thumbnailPath, err := spoolFormFile(r, "thumbnail", h.cfg.UploadTempDir)
	if err != nil {
		respondError(w, "videos.Publish", err)
		return
	}

	video, err := h.videos.Publish(r.Context(), service.PublishInput{
		OwnerID:       identity.ID,
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		respondError(w, "videos.Publish", err)
		return
	}

	respondJSON(w, http.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, videoID, ok := h.requestIDs(w, r, "videos.Get")
	if !ok {
		return
	}

	detail, err := h.videos.Get(r.Context(), videoID, identity.ID)
	if err != nil {
		respondError(w, "videos.Get", err)
		return
	}

	respondJSON(w, http.StatusOK, detail, "Video fetched successfully")
}

func (h *VideoHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	identity, videoID, ok := h.requestIDs(w, r, "videos.UpdateDetails")
	if !ok {
		return
	}

	var req UpdateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "videos.UpdateDetails", apperr.Validation("Invalid request body"))
		return
	}

	video, err := h.videos.UpdateDetails(r.Context(), videoID, identity.ID, req.Title, req.Description)
	if err != nil {
		respondError(w, "videos.UpdateDetails", err)
		return
	}

	respondJSON(w, http.StatusOK, video, "Video details updated successfully")
}

func (h *VideoHandler) UpdateThumbnail(w http.ResponseWriter, r *http.Request) {
	identity, videoID, ok := h.requestIDs(w, r, "videos.UpdateThumbnail")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "videos.UpdateThumbnail", apperr.Validation("Invalid multipart form"))
		return
	}
	localPath, err := spoolFormFile(r, "thumbnail", h.cfg.UploadTempDir)
	if err != nil {
		respondError(w, "videos.UpdateThumbnail", err)
		return
	}

	video, err := h.videos.UpdateThumbnail(r.Context(), videoID, identity.ID, localPath)
	if err != nil {
		respondError(w, "videos.UpdateThumbnail", err)
		return
	}

	respondJSON(w, http.StatusOK, video, "Video thumbnail updated successfully")
}

func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	identity, videoID, ok := h.requestIDs(w, r, "videos.TogglePublish")
	if !ok {
		return
	}

	video, err := h.videos.TogglePublish(r.Context(), videoID, identity.ID)
	if err != nil {
		respondError(w, "videos.TogglePublish", err)
		return
	}

	respondJSON(w, http.StatusOK, video, "Publish status toggled successfully")
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, videoID, ok := h.requestIDs(w, r, "videos.Delete")
	if !ok {
		return
	}

	if err := h.videos.Delete(r.Context(), videoID, identity.ID); err != nil {
		respondError(w, "videos.Delete", err)
		return
	}

	respondJSON(w, http.StatusOK, struct{}{}, "Video deleted successfully")
}

// requestIDs pulls the authenticated identity and the videoId path parameter,
// responding and returning ok=false on any failure.
func (h *VideoHandler) requestIDs(w http.ResponseWriter, r *http.Request, component string) (*service.Identity, uuid.UUID, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, component, service.ErrUnauthorized)
		return nil, uuid.Nil, false
	}

	videoID, err := domain.ParseID(chi.URLParam(r, "videoId"))
	if err != nil {
		respondError(w, component, err)
		return nil, uuid.Nil, false
	}
	return identity, videoID, true
}
