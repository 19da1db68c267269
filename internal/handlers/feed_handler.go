package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/middleware"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed        *services.Feed
	readTracker *services.ReadTracker
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *services.Feed, readTracker *services.ReadTracker) *FeedHandler {
	return &FeedHandler{feed: feed, readTracker: readTracker}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/unread", h.GetUnreadCount)
}

// GetFeed returns the enriched timeline for one scope
func (h *FeedHandler) GetFeed(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	scope, err := scopeFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	result, err := h.feed.LoadFeed(c.Request().Context(), scope, ac.UserID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    result,
	})
}

// GetUnreadCount sums unread posts over the requested scopes
func (h *FeedHandler) GetUnreadCount(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var scopes []models.Scope
	for _, gid := range c.QueryParams()["group_id"] {
		id, err := strconv.ParseUint(gid, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid group_id")
		}
		scopes = append(scopes, models.Scope{Kind: models.ScopeGroup, ID: uint(id)})
	}
	for _, cid := range c.QueryParams()["client_id"] {
		id, err := strconv.ParseUint(cid, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid client_id")
		}
		scopes = append(scopes, models.Scope{Kind: models.ScopeClient, ID: uint(id)})
	}
	if len(scopes) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one group_id or client_id is required")
	}

	count, err := h.readTracker.CountUnread(c.Request().Context(), ac.UserID, scopes)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"unread": count}})
}

// scopeFromQuery parses exactly one of group_id/client_id
func scopeFromQuery(c echo.Context) (models.Scope, error) {
	groupParam := c.QueryParam("group_id")
	clientParam := c.QueryParam("client_id")
	if (groupParam == "") == (clientParam == "") {
		return models.Scope{}, fmt.Errorf("exactly one of group_id or client_id is required")
	}
	if groupParam != "" {
		id, err := strconv.ParseUint(groupParam, 10, 32)
		if err != nil {
			return models.Scope{}, fmt.Errorf("invalid group_id")
		}
		return models.Scope{Kind: models.ScopeGroup, ID: uint(id)}, nil
	}
	id, err := strconv.ParseUint(clientParam, 10, 32)
	if err != nil {
		return models.Scope{}, fmt.Errorf("invalid client_id")
	}
	return models.Scope{Kind: models.ScopeClient, ID: uint(id)}, nil
}
