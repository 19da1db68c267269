package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/middleware"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

const defaultInviteTTLDays = 7

// InviteHandler handles invite token issuance
type InviteHandler struct {
	inviteRepository repositories.InviteRepository
}

// NewInviteHandler creates a new InviteHandler
func NewInviteHandler(inviteRepo repositories.InviteRepository) *InviteHandler {
	return &InviteHandler{inviteRepository: inviteRepo}
}

// RegisterInviteRoutes registers invite-related routes
func (h *InviteHandler) RegisterInviteRoutes(g *echo.Group) {
	g.POST("/invites", h.CreateInvite)
}

// CreateInvite issues a single-use invite token for the caller's facility.
// Only admins can invite.
func (h *InviteHandler) CreateInvite(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if ac.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Only admins can create invites")
	}

	var req models.CreateInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	days := req.ExpiresInDays
	if days == 0 {
		days = defaultInviteTTLDays
	}

	invite := &models.Invite{
		Token:      uuid.NewString(),
		FacilityID: ac.FacilityID,
		Role:       req.Role,
		ExpiresAt:  time.Now().AddDate(0, 0, days),
	}
	if err := h.inviteRepository.CreateInvite(invite); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": invite})
}
