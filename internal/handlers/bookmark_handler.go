package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/middleware"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
)

// BookmarkHandler handles bookmark HTTP requests
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	postRepository     repositories.PostRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, postRepo repositories.PostRepository) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepository: bookmarkRepo,
		postRepository:     postRepo,
	}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:id/bookmark", h.SaveBookmark)
	g.DELETE("/posts/:id/bookmark", h.RemoveBookmark)
	g.GET("/bookmarks", h.ListBookmarks)
}

// SaveBookmark saves a post for the caller. Saving an already-saved post is
// success, not a conflict.
func (h *BookmarkHandler) SaveBookmark(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	postID := c.Param("id")

	// Verify post exists
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	saved, _ := h.bookmarkRepository.IsBookmarked(ac.UserID, postID)
	if !saved {
		bookmark := &models.Bookmark{UserID: ac.UserID, PostID: postID}
		if err := h.bookmarkRepository.SaveBookmark(bookmark); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": true}})
}

// RemoveBookmark removes a saved post. Removing an absent bookmark is
// success, matching the toggle semantics on the client.
func (h *BookmarkHandler) RemoveBookmark(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.bookmarkRepository.RemoveBookmark(ac.UserID, c.Param("id")); err != nil && err.Error() != "bookmark not found" {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarked": false}})
}

// ListBookmarks lists the caller's saved posts, newest first
func (h *BookmarkHandler) ListBookmarks(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bookmarks, err := h.bookmarkRepository.GetBookmarksByUser(ac.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"bookmarks": bookmarks}})
}
