package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/middleware"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/services"
)

// PushHandler handles push subscription and dispatch HTTP requests
type PushHandler struct {
	subscriptionRepository repositories.PushSubscriptionRepository
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	dispatcher             *services.Dispatcher
}

// NewPushHandler creates a new PushHandler
func NewPushHandler(subRepo repositories.PushSubscriptionRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, dispatcher *services.Dispatcher) *PushHandler {
	return &PushHandler{
		subscriptionRepository: subRepo,
		postRepository:         postRepo,
		userRepository:         userRepo,
		dispatcher:             dispatcher,
	}
}

// RegisterPushRoutes registers push-related routes
func (h *PushHandler) RegisterPushRoutes(g *echo.Group) {
	g.POST("/push/subscribe", h.Subscribe)
	g.DELETE("/push/subscribe", h.Unsubscribe)
	g.POST("/notifications/dispatch", h.Dispatch)
}

// Subscribe registers (or refreshes) a push endpoint for the caller
func (h *PushHandler) Subscribe(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Keys.P256dh == "" || req.Keys.Auth == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Subscription keys are required")
	}

	sub := &models.PushSubscription{
		UserID:     ac.UserID,
		FacilityID: ac.FacilityID,
		Endpoint:   req.Endpoint,
		P256dh:     req.Keys.P256dh,
		Auth:       req.Keys.Auth,
	}
	if err := h.subscriptionRepository.UpsertSubscription(sub); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Unsubscribe removes an endpoint; only the caller's own subscriptions are
// reachable
func (h *PushHandler) Unsubscribe(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.UnsubscribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.subscriptionRepository.DeleteByEndpointForUser(req.Endpoint, ac.UserID); err != nil {
		if err.Error() == "subscription not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Subscription not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DispatchRequest defines the request body for notify-on-new-post
type DispatchRequest struct {
	PostID string `json:"post_id" validate:"required"`
}

// Dispatch fans a new-post notification out to the facility and returns the
// delivery summary. Partial delivery failure is part of the summary, never
// an error.
func (h *PushHandler) Dispatch(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req DispatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), req.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.FacilityID != ac.FacilityID {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	author, err := h.userRepository.GetUserByID(post.AuthorID)
	authorName := "A colleague"
	if err == nil {
		authorName = author.Name
	}

	payload := models.PushPayload{
		Title: "New update",
		Body:  fmt.Sprintf("%s posted an update", authorName),
		URL:   fmt.Sprintf("/posts/%s", post.ID.Hex()),
	}
	summary, err := h.dispatcher.NotifyFacility(c.Request().Context(), post.FacilityID, post.AuthorID, payload)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "result": summary})
}
