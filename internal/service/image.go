package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/recipebox/backend/config"
)

// ImageService stores uploaded recipe images in S3 and hands back the public
// URL. The caller persists the URL; no image processing happens here beyond
// rejecting non-image payloads.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadRecipeImage sniffs the payload's content type, rejects anything that
// is not an image, and uploads the bytes under a fresh object key.
func (s *ImageService) UploadRecipeImage(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ValidationError{Field: "image", Message: "empty upload"}
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", &ValidationError{Field: "image", Message: "payload is not an image"}
	}

	ext := imageExtensions[contentType]
	key := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[ImageService] Uploaded recipe image to %s", publicURL)

	return publicURL, nil
}
