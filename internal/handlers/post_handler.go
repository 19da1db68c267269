package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/middleware"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/services"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository     repositories.PostRepository
	facilityRepository repositories.FacilityRepository
	userRepository     repositories.UserRepository
	dispatcher         *services.Dispatcher
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, facilityRepo repositories.FacilityRepository, userRepo repositories.UserRepository, dispatcher *services.Dispatcher) *PostHandler {
	return &PostHandler{
		postRepository:     postRepo,
		facilityRepository: facilityRepo,
		userRepository:     userRepo,
		dispatcher:         dispatcher,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a post in the caller's facility and fires push
// notifications to the other members, best effort.
func (h *PostHandler) CreatePost(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if (req.GroupID == 0) == (req.ClientID == 0) {
		return echo.NewHTTPError(http.StatusBadRequest, "Exactly one of group_id or client_id must be set")
	}

	// The target must exist and belong to the caller's facility
	targetName, err := h.resolveTarget(ac.FacilityID, req.GroupID, req.ClientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Target not found")
	}

	post := &models.Post{
		FacilityID: ac.FacilityID,
		AuthorID:   ac.UserID,
		GroupID:    req.GroupID,
		ClientID:   req.ClientID,
		Body:       req.Body,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Notify the rest of the facility; delivery failures never fail the post.
	go func(post models.Post, authorID uint, targetName string) {
		author, err := h.userRepository.GetUserByID(authorID)
		authorName := "A colleague"
		if err == nil {
			authorName = author.Name
		}
		payload := models.PushPayload{
			Title: fmt.Sprintf("New update about %s", targetName),
			Body:  fmt.Sprintf("%s posted an update", authorName),
			URL:   fmt.Sprintf("/posts/%s", post.ID.Hex()),
		}
		// Detached from the request context; the response does not wait.
		if _, err := h.dispatcher.NotifyFacility(context.Background(), post.FacilityID, authorID, payload); err != nil {
			log.Printf("WARN: notifying facility %d about post %s failed: %v", post.FacilityID, post.ID.Hex(), err)
		}
	}(*post, ac.UserID, targetName)

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a single post, scoped to the caller's facility
func (h *PostHandler) GetPost(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.FacilityID != ac.FacilityID || post.Deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost soft-deletes a post; only its author may do so
func (h *PostHandler) DeletePost(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")
	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.AuthorID != ac.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete a post")
	}

	if err := h.postRepository.SoftDeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// resolveTarget verifies the scope target and returns its display name
func (h *PostHandler) resolveTarget(facilityID, groupID, clientID uint) (string, error) {
	if groupID != 0 {
		group, err := h.facilityRepository.GetGroupByID(groupID)
		if err != nil {
			return "", err
		}
		if group.FacilityID != facilityID {
			return "", fmt.Errorf("group %d not in facility %d", groupID, facilityID)
		}
		return group.Name, nil
	}
	client, err := h.facilityRepository.GetClientByID(clientID)
	if err != nil {
		return "", err
	}
	if client.FacilityID != facilityID {
		return "", fmt.Errorf("client %d not in facility %d", clientID, facilityID)
	}
	return client.Name, nil
}
