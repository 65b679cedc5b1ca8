package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// ProfileHandler handles the caller's own profile and preferences.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// updateProfileRequest carries the patchable profile fields. Identity
// fields (email, image) are owned by the identity provider and not
// mutable here.
type updateProfileRequest struct {
	Name               domain.Opt[string] `json:"name"`
	Bio                domain.Opt[string] `json:"bio"`
	Role               domain.Opt[string] `json:"role"`
	Department         domain.Opt[string] `json:"department"`
	Theme              domain.Opt[string] `json:"theme"`
	EmailNotifications domain.Opt[bool]   `json:"emailNotifications"`
	TaskReminders      domain.Opt[bool]   `json:"taskReminders"`
}

type profileResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Image              string    `json:"image,omitempty"`
	Bio                string    `json:"bio,omitempty"`
	Role               string    `json:"role,omitempty"`
	Department         string    `json:"department,omitempty"`
	Theme              string    `json:"theme"`
	EmailNotifications bool      `json:"emailNotifications"`
	TaskReminders      bool      `json:"taskReminders"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Get handles GET /v1/profile.
//
// @Summary      Get the caller's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// Update handles PATCH /v1/profile.
//
// @Summary      Partially update the caller's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Partial profile payload"
// @Success      200   {object}  profileResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.Update(c.Request().Context(), userID, toProfilePatch(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProfileResponse(user))
}

func toProfilePatch(req updateProfileRequest) domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:               req.Name,
		Bio:                req.Bio,
		Role:               req.Role,
		Department:         req.Department,
		Theme:              convertOpt[domain.Theme](req.Theme),
		EmailNotifications: req.EmailNotifications,
		TaskReminders:      req.TaskReminders,
	}
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Image:              u.Image,
		Bio:                u.Bio,
		Role:               u.Role,
		Department:         u.Department,
		Theme:              string(u.Theme),
		EmailNotifications: u.EmailNotifications,
		TaskReminders:      u.TaskReminders,
		CreatedAt:          u.CreatedAt.UTC(),
		UpdatedAt:          u.UpdatedAt.UTC(),
	}
}
