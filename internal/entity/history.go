package entity

import "time"

type HistoryRecord struct {
	ID        int64     `json:"id"`
	ImageID   string    `json:"image_id"`
	Variant   string    `json:"variant"`
	Mode      Mode      `json:"mode"`
	Threshold int       `json:"threshold"`
	Erased    int       `json:"erased"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
