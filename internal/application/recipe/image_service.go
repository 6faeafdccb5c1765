package recipe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mise/backend/internal/domain/recipe"
	"github.com/mise/backend/internal/domain/shared"
)

// ErrImageNotUploaded is returned when an upload is confirmed before the
// object actually landed in storage.
var ErrImageNotUploaded = errors.New("recipe image has not been uploaded")

// imageUploadExpiry bounds how long a presigned upload URL stays valid.
const imageUploadExpiry = 15 * time.Minute

// ImageStore abstracts the object storage backend holding recipe images.
// Uploads go through presigned URLs so image bytes never pass through the
// API server.
type ImageStore interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	DeleteObject(ctx context.Context, storageKey string) error
	PublicURL(storageKey string) string
}

// ImageUploadResponse carries a presigned upload URL back to the client.
type ImageUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ImageService handles the recipe image upload flow: request a presigned
// URL, confirm the upload, remove the image. All operations are owner-only.
type ImageService struct {
	recipeRepo recipe.Repository
	store      ImageStore
}

// NewImageService creates a new ImageService
func NewImageService(recipeRepo recipe.Repository, store ImageStore) *ImageService {
	return &ImageService{
		recipeRepo: recipeRepo,
		store:      store,
	}
}

// imageStorageKey is deterministic per recipe so re-uploads overwrite the
// previous image instead of leaking orphaned objects.
func imageStorageKey(recipeID int64) string {
	return fmt.Sprintf("recipes/%d/image", recipeID)
}

// RequestUpload returns a presigned URL the owner can PUT the image bytes to.
func (s *ImageService) RequestUpload(ctx context.Context, userID string, recipeID int64, contentType string) (*ImageUploadResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if r.OwnerID != userID {
		return nil, shared.ErrForbidden
	}

	key := imageStorageKey(recipeID)
	uploadURL, expiresAt, err := s.store.GenerateUploadURL(ctx, key, contentType, imageUploadExpiry)
	if err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: key,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload verifies the object exists in storage and records its
// public URL on the recipe.
func (s *ImageService) ConfirmUpload(ctx context.Context, userID string, recipeID int64) (*RecipeResponse, error) {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if r.OwnerID != userID {
		return nil, shared.ErrForbidden
	}

	key := imageStorageKey(recipeID)
	exists, err := s.store.ObjectExists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrImageNotUploaded
	}

	imageURL := s.store.PublicURL(key)
	r.ImageURL = &imageURL
	if err := s.recipeRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	resp := ToRecipeResponse(r)
	return &resp, nil
}

// RemoveImage deletes the stored object and clears the recipe's image URL.
// Removing an image that was never set is a no-op.
func (s *ImageService) RemoveImage(ctx context.Context, userID string, recipeID int64) error {
	r, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if r.OwnerID != userID {
		return shared.ErrForbidden
	}
	if r.ImageURL == nil {
		return nil
	}

	if err := s.store.DeleteObject(ctx, imageStorageKey(recipeID)); err != nil {
		return err
	}

	r.ImageURL = nil
	return s.recipeRepo.Save(ctx, r)
}
