package service

import "context"

// IImageService is the narrow interface the recipe handler needs for image
// uploads; tests substitute a fake that skips S3.
type IImageService interface {
	UploadRecipeImage(ctx context.Context, data []byte) (string, error)
}
