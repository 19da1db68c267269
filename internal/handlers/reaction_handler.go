package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/middleware"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/services"
)

// ReactionHandler handles HTTP requests related to reactions
type ReactionHandler struct {
	reactions          *services.Reactions
	reactionRepository repositories.ReactionRepository
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(reactions *services.Reactions, reactionRepo repositories.ReactionRepository) *ReactionHandler {
	return &ReactionHandler{reactions: reactions, reactionRepository: reactionRepo}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/reactions", h.ToggleReaction)
	g.GET("/posts/:post_id/reactions", h.GetReactionsForPost)
}

// ToggleReaction flips the caller's reaction of the given type on a post.
// The response carries the resulting state so an optimistic client update
// can be confirmed or reverted without refetching.
func (h *ReactionHandler) ToggleReaction(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	active, err := h.reactions.Toggle(c.Request().Context(), c.Param("post_id"), ac.UserID, req.Kind)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case errors.Is(err, services.ErrNotMember):
			// A distinct, user-visible category; never folded into
			// generic storage errors.
			return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this facility")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"type": req.Kind, "active": active},
	})
}

// GetReactionsForPost lists all reactions on a post
func (h *ReactionHandler) GetReactionsForPost(c echo.Context) error {
	reactions, err := h.reactionRepository.GetReactionsByPostID(c.Param("post_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reactions": reactions}})
}
