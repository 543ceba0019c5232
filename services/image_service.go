package services

import (
	"fmt"
	"mime/multipart"

	"github.com/terraza-app/terraza-kiosk/utils"
)

// ProductImageService handles product photo upload, retrieval, and
// deletion for the admin panel. The photo lands in S3 and the remote API
// stores only the URL on the product.
type ProductImageService interface {
	// UploadProductImage validates and uploads a photo, returns the storage key
	UploadProductImage(fileHeader *multipart.FileHeader) (string, error)

	// ProductImageURL generates a URL for accessing an uploaded photo
	ProductImageURL(imageKey string) (string, error)

	// DeleteProductImage removes a photo from storage
	DeleteProductImage(imageKey string) error
}

// S3ProductImageService implements ProductImageService using AWS S3 for storage
type S3ProductImageService struct {
	s3Service S3Interface
}

var productImageServiceInstance ProductImageService

// InitProductImageService initializes the product image service with S3 backend
func InitProductImageService(s3Service S3Interface) ProductImageService {
	productImageServiceInstance = &S3ProductImageService{
		s3Service: s3Service,
	}
	return productImageServiceInstance
}

// GetProductImageService returns the initialized product image service instance
func GetProductImageService() ProductImageService {
	return productImageServiceInstance
}

// SetProductImageService sets the product image service instance (primarily for testing)
func SetProductImageService(service ProductImageService) {
	productImageServiceInstance = service
}

// UploadProductImage validates and uploads a product photo to S3
func (s *S3ProductImageService) UploadProductImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload product image: %w", err)
	}

	return s3Key, nil
}

// ProductImageURL generates a presigned URL for accessing a product photo
func (s *S3ProductImageService) ProductImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate product image URL: %w", err)
	}

	return url, nil
}

// DeleteProductImage deletes a product photo from S3
func (s *S3ProductImageService) DeleteProductImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete product image: %w", err)
	}

	return nil
}
