package entity

import "time"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"

	// FormatOriginal names the uploaded file in storage and in the file route.
	FormatOriginal = "original"
)

type Image struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Preset    string            `json:"preset"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Formats   map[string]string `json:"formats,omitempty"`
	Erased    map[string]int    `json:"erased,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type ProcessingTask struct {
	ImageID    string    `json:"image_id"`
	Operations []Variant `json:"operations"`
}

type UploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ImageResponse struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Preset  string            `json:"preset"`
	Formats map[string]string `json:"formats,omitempty"`
	Erased  map[string]int    `json:"erased,omitempty"`
	Error   string            `json:"error,omitempty"`
}
