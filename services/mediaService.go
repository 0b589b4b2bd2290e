package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MediaService stores uploaded issue photos and voice notes in object
// storage and hands back the public URL recorded on the issue.
type MediaService struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMediaService(client *minio.Client, bucket, baseURL string) *MediaService {
	return &MediaService{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload stores data under a random object name below prefix
// ("photos" or "audio") and returns its public URL.
func (s *MediaService) Upload(ctx context.Context, prefix string, data []byte, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), extensionForMedia(contentType))

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, objectName), nil
}

func extensionForMedia(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return extensionFor(contentType)
}
