package dto

import (
	"time"

	"github.com/tumbluv/tumbluv-api/internal/services"
)

// PresignedUploadDTO describes a direct-to-storage upload
type PresignedUploadDTO struct {
	UploadURL string            `json:"upload_url"`
	FileKey   string            `json:"file_key"`
	FileURL   string            `json:"file_url"`
	ExpiresAt time.Time         `json:"expires_at"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
}

func ToPresignedUploadDTO(upload services.PresignedUpload) PresignedUploadDTO {
	return PresignedUploadDTO{
		UploadURL: upload.UploadURL,
		FileKey:   upload.FileKey,
		FileURL:   upload.FileURL,
		ExpiresAt: upload.ExpiresAt,
		Method:    upload.Method,
		Headers:   upload.Headers,
	}
}
