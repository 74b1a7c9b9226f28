package services

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// UploadFolderPrefix is the Cloudinary folder holding user uploads.
const UploadFolderPrefix = "inkwell"

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, userID string, file io.Reader) (string, error)
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	return &CloudinaryService{
		cld: cld,
	}, nil
}

// UploadImage uploads into the user's own folder.
func (s *CloudinaryService) UploadImage(ctx context.Context, userID string, file io.Reader) (string, error) {
	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       UploadFolder(userID),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if uploadResult.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", uploadResult.Error.Message)
	}

	return uploadResult.SecureURL, nil
}

// UploadFolder returns the Cloudinary folder for a user's uploads.
func UploadFolder(userID string) string {
	return UploadFolderPrefix + "/" + userID
}

// UnavailableUploader is used when Cloudinary is not configured.
type UnavailableUploader struct{}

func (UnavailableUploader) UploadImage(context.Context, string, io.Reader) (string, error) {
	return "", models.ErrUnavailable
}
