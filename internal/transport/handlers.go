package transport

import (
	"github.com/ds124wfegd/bgremove/internal/service"
)

type ImageHandler struct {
	service       service.ImageService
	defaultPreset string
}

func NewImageHandler(service service.ImageService, defaultPreset string) *ImageHandler {
	return &ImageHandler{service: service, defaultPreset: defaultPreset}
}
