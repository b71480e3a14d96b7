package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/streamhub/backend/internal/api/middleware"
	"github.com/streamhub/backend/internal/apperr"
	"github.com/streamhub/backend/internal/config"
	"github.com/streamhub/backend/internal/domain"
	"github.com/streamhub/backend/internal/service"
)

type UserHandler struct {
	auth  *service.AuthService
	users *service.UserService
	cfg   *config.Config
}

func NewUserHandler(auth *service.AuthService, users *service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{auth: auth, users: users, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type AuthPayload struct {
	User         any    `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register accepts a multipart form: username, email, fullName, password,
// avatar (required file) and coverImage (optional file).
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "users.Register", apperr.Validation("Invalid multipart form"))
		return
	}

	avatarPath, err := spoolFormFile(r, "avatar", h.cfg.UploadTempDir)
	if err != nil {
		respondError(w, "users.Register", err)
		return
	}
	coverPath, err := spoolFormFile(r, "coverImage", h.cfg.UploadTempDir)
	if err != nil {
		respondError(w, "users.Register", err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:   r.FormValue("username"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("fullName"),
		Password:   r.FormValue("password"),
		AvatarPath: avatarPath,
		CoverPath:  coverPath,
	})
	if err != nil {
		respondError(w, "users.Register", err)
		return
	}

	respondJSON(w, http.StatusCreated, user, "User registered successfully")
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "users.Login", apperr.Validation("Invalid request body"))
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, "users.Login", err)
		return
	}

	h.setTokenCookies(w, result.AccessToken, result.RefreshToken)
	respondJSON(w, http.StatusOK, AuthPayload{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "User logged in successfully")
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, "users.Logout", service.ErrUnauthorized)
		return
	}

	if err := h.auth.Logout(r.Context(), identity.ID); err != nil {
		respondError(w, "users.Logout", err)
		return
	}

	h.clearTokenCookies(w)
	respondJSON(w, http.StatusOK, struct{}{}, "User logged out")
}

// RefreshToken reads the presented refresh token from the cookie or the body
// and rotates it for a fresh pair.
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	presented := ""
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	result, err := h.auth.Refresh(r.Context(), presented)
	if err != nil {
		respondError(w, "users.RefreshToken", err)
		return
	}

	h.setTokenCookies(w, result.AccessToken, result.RefreshToken)
	respondJSON(w, http.StatusOK, AuthPayload{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "Access token refreshed successfully")
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, "users.ChangePassword", service.ErrUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "users.ChangePassword", apperr.Validation("Invalid request body"))
		return
	}

	if err := h.auth.ChangePassword(r.Context(), identity.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(w, "users.ChangePassword", err)
		return
	}

	respondJSON(w, http.StatusOK, struct{}{}, "Password changed successfully")
}

func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, "users.CurrentUser", service.ErrUnauthorized)
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), identity.ID)
	if err != nil {
		respondError(w, "users.CurrentUser", err)
		return
	}

	respondJSON(w, http.StatusOK, user, "User details fetched successfully")
}

func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, "users.UpdateAccount", service.ErrUnauthorized)
		return
	}

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "users.UpdateAccount", apperr.Validation("Invalid request body"))
		return
	}

	user, err := h.auth.UpdateAccount(r.Context(), identity.ID, req.FullName, req.Email)
	if err != nil {
		respondError(w, "users.UpdateAccount", err)
		return
	}

	respondJSON(w, http.StatusOK, user, "Account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", "Avatar updated successfully", h.auth.UpdateAvatar)
}

func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", "Cover image updated successfully", h.auth.UpdateCoverImage)
}

func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, "users.ChannelProfile", service.ErrUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	profile, err := h.users.ChannelProfile(r.Context(), username, identity.ID)
	if err != nil {
		respondError(w, "users.ChannelProfile", err)
		return
	}

	respondJSON(w, http.StatusOK, profile, username+"'s profile fetched successfully")
}

func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, "users.WatchHistory", service.ErrUnauthorized)
		return
	}

	history, err := h.users.WatchHistory(r.Context(), identity.ID)
	if err != nil {
		respondError(w, "users.WatchHistory", err)
		return
	}

	respondJSON(w, http.StatusOK, history, "Watch history fetched successfully")
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field, message string, update func(ctx context.Context, userID uuid.UUID, localPath string) (*domain.User, error)) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		respondError(w, "users.updateImage", service.ErrUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, "users.updateImage", apperr.Validation("Invalid multipart form"))
		return
	}
	localPath, err := spoolFormFile(r, field, h.cfg.UploadTempDir)
	if err != nil {
		respondError(w, "users.updateImage", err)
		return
	}

	user, err := update(r.Context(), identity.ID, localPath)
	if err != nil {
		respondError(w, "users.updateImage", err)
		return
	}

	respondJSON(w, http.StatusOK, user, message)
}

func (h *UserHandler) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

func (h *UserHandler) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
}
