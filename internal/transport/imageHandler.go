package transport

import (
	"errors"
	"io"
	"net/http"

	"github.com/ds124wfegd/bgremove/internal/entity"
	"github.com/ds124wfegd/bgremove/internal/pkg/codec"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (h *ImageHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	if !codec.IsSupported(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image type. Supported: jpg, jpeg, png, gif, bmp, tiff"})
		return
	}

	preset := c.DefaultPostForm("preset", h.defaultPreset)

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read uploaded file"})
		return
	}
	defer src.Close()

	id := uuid.New().String()

	imageID, err := h.service.ProcessImage(c.Request.Context(), id, preset, src)
	if err != nil {
		if errors.Is(err, entity.ErrUnknownPreset) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logrus.WithField("image_id", id).Errorf("upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue image"})
		return
	}

	c.JSON(http.StatusAccepted, entity.UploadResponse{
		ID:     imageID,
		Status: entity.StatusProcessing,
	})
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	image, err := h.service.GetImage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := entity.ImageResponse{
		ID:     image.ID,
		Status: image.Status,
		Preset: image.Preset,
		Error:  image.Error,
	}

	if image.Status == entity.StatusCompleted {
		response.Formats = image.Formats
		response.Erased = image.Erased
	}

	c.JSON(http.StatusOK, response)
}

func (h *ImageHandler) GetImageFile(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}
	variant := c.Param("variant")

	reader, err := h.service.OpenVariant(c.Request.Context(), id, variant)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	contentType := "image/png"
	if variant == entity.FormatOriginal {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		logrus.WithField("image_id", id).Warnf("failed to stream %s: %v", variant, err)
	}
}

func (h *ImageHandler) GetHistory(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	records, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, ok := imageID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

func (h *ImageHandler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Presets())
}

// imageID rejects anything that is not a UUID before it reaches storage.
func imageID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := uuid.Validate(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
		return "", false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
	case errors.Is(err, entity.ErrVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Variant not found"})
	default:
		logrus.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
