package model

import "time"

type Video struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	File        string    `json:"-"`
	Image       string    `json:"-"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type UploadResponse struct {
	Status string `json:"status"`
	Video  *Video `json:"video"`
}
