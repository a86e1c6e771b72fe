package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/middleware"
)

// maxUploadBytes caps logo and signature image uploads.
const maxUploadBytes = 5 << 20

type uploadHandler struct {
	imageStore portssvc.ImageStoreFacade
}

func newUploadHandler(store portssvc.ImageStoreFacade) *uploadHandler {
	return &uploadHandler{imageStore: store}
}

func registerUploadRoutes(rg *gin.RouterGroup, store portssvc.ImageStoreFacade) {
	h := newUploadHandler(store)
	rg.POST("/uploads", h.uploadImage)
}

// UploadResponse carries the public URL of a stored image.
type UploadResponse struct {
	URL string `json:"url"`
}

// uploadImage godoc
// @Summary Upload a logo or signature image
// @Description Stores the image and returns a public URL for use in invoice drafts
// @Tags uploads
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Image file (max 5MB)"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /uploads [post]
func (h *uploadHandler) uploadImage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing file in request"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "File exceeds the 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		logger.Error("Failed to read uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.imageStore.Upload(c.Request.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		logger.Error("Failed to store uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to store uploaded file"})
		return
	}

	c.JSON(http.StatusOK, UploadResponse{URL: url})
}
