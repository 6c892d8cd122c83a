package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "crewhub-backend/internal/common/errors"
	"crewhub-backend/internal/common/middleware"
	"crewhub-backend/internal/features/member/models"
	"crewhub-backend/internal/features/member/service"
)

type MemberHandler struct {
	service service.MemberService
}

func NewMemberHandler(service service.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

// RegisterRoutes mounts the public listing and the init-data protected
// profile operations.
func (h *MemberHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/users", h.ListUsers)

	authed.POST("/level-up", h.LevelUp)
	authed.POST("/level-down", h.LevelDown)
	authed.POST("/update-profile", h.UpdateProfile)
}

// @Summary List members
// @Description Returns all members ordered by level (desc) and last update (desc)
// @Tags members
// @Produce json
// @Success 200 {array} models.Member "Members"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [get]
func (h *MemberHandler) ListUsers(c *gin.Context) {
	members, err := h.service.ListMembers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// LevelResponse carries the level after a level operation.
type LevelResponse struct {
	Level int `json:"level" example:"4"`
}

// @Summary Increase level
// @Description Raises the authenticated member's level by one, up to the ceiling
// @Tags members
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} LevelResponse "New level"
// @Failure 400 {object} map[string]string "Already at max level"
// @Failure 401 {object} map[string]string "Missing or invalid init data"
// @Failure 404 {object} map[string]string "User not found"
// @Router /level-up [post]
func (h *MemberHandler) LevelUp(c *gin.Context) {
	user, ok := middleware.AuthUser(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("missing credential"))
		return
	}

	level, err := h.service.IncrementLevel(c.Request.Context(), user.ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LevelResponse{Level: level})
}

// @Summary Decrease level
// @Description Lowers the authenticated member's level by one, clamping at zero
// @Tags members
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} LevelResponse "New level"
// @Failure 401 {object} map[string]string "Missing or invalid init data"
// @Failure 404 {object} map[string]string "User not found"
// @Router /level-down [post]
func (h *MemberHandler) LevelDown(c *gin.Context) {
	user, ok := middleware.AuthUser(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("missing credential"))
		return
	}

	level, err := h.service.DecrementLevel(c.Request.Context(), user.ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, LevelResponse{Level: level})
}

// @Summary Update profile
// @Description Applies the provided profile fields for the authenticated member
// @Tags members
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param patch body models.ProfilePatch true "Fields to update"
// @Success 200 {object} models.Member "Updated member"
// @Failure 400 {object} map[string]string "Validation failure or empty patch"
// @Failure 401 {object} map[string]string "Missing or invalid init data"
// @Failure 404 {object} map[string]string "User not found"
// @Router /update-profile [post]
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.AuthUser(c)
	if !ok {
		c.Error(apperrors.NewUnauthorized("missing credential"))
		return
	}

	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperrors.NewValidation("invalid request body"))
		return
	}

	member, err := h.service.UpdateProfile(c.Request.Context(), user.ID, patch)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, member)
}
