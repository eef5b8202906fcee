package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tumbluv/tumbluv-api/internal/dto"
	apierrors "github.com/tumbluv/tumbluv-api/internal/errors"
	"github.com/tumbluv/tumbluv-api/internal/logger"
	"github.com/tumbluv/tumbluv-api/internal/services"
)

type UploadHandler struct {
	uploadService *services.UploadService
}

func NewUploadHandler(uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// PresignThumbnail returns a presigned PUT target for a project thumbnail
func (h *UploadHandler) PresignThumbnail(c *gin.Context) {
	type PresignRequest struct {
		Filename    string `json:"filename" binding:"required"`
		ContentType string `json:"content_type"`
	}

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.CodeKeyError)
		return
	}

	upload, err := h.uploadService.PresignThumbnail(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStorageNotConfigured):
			apierrors.ServiceUnavailable(c, apierrors.CodeStorageUnavailable)
		case errors.Is(err, services.ErrFilenameRequired):
			apierrors.BadRequest(c, apierrors.CodeKeyError)
		default:
			logger.New("UploadHandler").Error("failed to presign upload", "error", err)
			apierrors.InternalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPresignedUploadDTO(*upload))
}
