package dto

import "time"

type BackupFile struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Uploaded  *bool     `json:"uploaded,omitempty"`
}

type RestoreResponse struct {
	Name       string    `json:"name"`
	RestoredAt time.Time `json:"restored_at"`
	Note       string    `json:"note,omitempty"`
}
