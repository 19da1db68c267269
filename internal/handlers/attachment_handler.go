package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/middleware"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/repositories"
	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/services"
)

// AttachmentHandler handles attachment upload and removal
type AttachmentHandler struct {
	attachments          *services.Attachments
	attachmentRepository repositories.AttachmentRepository
	postRepository       repositories.PostRepository
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachments *services.Attachments, attachmentRepo repositories.AttachmentRepository, postRepo repositories.PostRepository) *AttachmentHandler {
	return &AttachmentHandler{
		attachments:          attachments,
		attachmentRepository: attachmentRepo,
		postRepository:       postRepo,
	}
}

// RegisterAttachmentRoutes registers attachment routes
func (h *AttachmentHandler) RegisterAttachmentRoutes(g *echo.Group) {
	g.POST("/posts/:id/attachments", h.Upload)
	g.DELETE("/attachments/:id", h.Delete)
}

// Upload attaches a multipart file to a post
func (h *AttachmentHandler) Upload(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	if post.FacilityID != ac.FacilityID {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "A file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer src.Close()

	attachment, err := h.attachments.Upload(
		c.Request().Context(),
		post,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		src,
		fileHeader.Size,
	)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, attachment)
}

// Delete soft-deletes an attachment. The client asks the user to confirm
// before calling this.
func (h *AttachmentHandler) Delete(c echo.Context) error {
	ac := middleware.AuthFromContext(c)
	if ac == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	attachment, err := h.attachmentRepository.GetAttachmentByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Attachment not found")
	}
	if attachment.FacilityID != ac.FacilityID {
		return echo.NewHTTPError(http.StatusNotFound, "Attachment not found")
	}

	if err := h.attachments.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
