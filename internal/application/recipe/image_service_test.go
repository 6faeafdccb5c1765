package recipe

import (
	"context"
	"testing"
	"time"

	"github.com/mise/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestImageService_RequestUpload(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	store := new(MockImageStore)
	service := NewImageService(recipeRepo, store)
	ctx := context.Background()

	owned := savedRecipe(7, "Focaccia", "user-1")
	expiresAt := time.Now().Add(imageUploadExpiry)
	recipeRepo.On("FindByID", ctx, int64(7)).Return(owned, nil)
	store.On("GenerateUploadURL", ctx, "recipes/7/image", "image/jpeg", imageUploadExpiry).
		Return("https://storage.local/put/recipes/7/image", expiresAt, nil)

	got, err := service.RequestUpload(ctx, "user-1", 7, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "https://storage.local/put/recipes/7/image", got.UploadURL)
	assert.Equal(t, "recipes/7/image", got.StorageKey)
	assert.Equal(t, expiresAt, got.ExpiresAt)
	store.AssertExpectations(t)
}

func TestImageService_RequestUpload_NonOwnerForbidden(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	store := new(MockImageStore)
	service := NewImageService(recipeRepo, store)
	ctx := context.Background()

	other := savedRecipe(7, "Focaccia", "someone-else")
	other.IsPublic = true
	recipeRepo.On("FindByID", ctx, int64(7)).Return(other, nil)

	_, err := service.RequestUpload(ctx, "user-1", 7, "image/jpeg")

	assert.ErrorIs(t, err, shared.ErrForbidden)
	store.AssertNotCalled(t, "GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestImageService_ConfirmUpload(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	store := new(MockImageStore)
	service := NewImageService(recipeRepo, store)
	ctx := context.Background()

	owned := savedRecipe(7, "Focaccia", "user-1")
	recipeRepo.On("FindByID", ctx, int64(7)).Return(owned, nil)
	recipeRepo.On("Save", ctx, owned).Return(nil)
	store.On("ObjectExists", ctx, "recipes/7/image").Return(true, nil)
	store.On("PublicURL", "recipes/7/image").Return("https://img.mise.app/recipes/7/image")

	got, err := service.ConfirmUpload(ctx, "user-1", 7)

	require.NoError(t, err)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "https://img.mise.app/recipes/7/image", *got.ImageURL)
	recipeRepo.AssertExpectations(t)
}

func TestImageService_ConfirmUpload_ObjectMissing(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	store := new(MockImageStore)
	service := NewImageService(recipeRepo, store)
	ctx := context.Background()

	owned := savedRecipe(7, "Focaccia", "user-1")
	recipeRepo.On("FindByID", ctx, int64(7)).Return(owned, nil)
	store.On("ObjectExists", ctx, "recipes/7/image").Return(false, nil)

	_, err := service.ConfirmUpload(ctx, "user-1", 7)

	assert.ErrorIs(t, err, ErrImageNotUploaded)
	recipeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestImageService_RemoveImage(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	store := new(MockImageStore)
	service := NewImageService(recipeRepo, store)
	ctx := context.Background()

	owned := savedRecipe(7, "Focaccia", "user-1")
	imageURL := "https://img.mise.app/recipes/7/image"
	owned.ImageURL = &imageURL
	recipeRepo.On("FindByID", ctx, int64(7)).Return(owned, nil)
	recipeRepo.On("Save", ctx, owned).Return(nil)
	store.On("DeleteObject", ctx, "recipes/7/image").Return(nil)

	err := service.RemoveImage(ctx, "user-1", 7)

	require.NoError(t, err)
	assert.Nil(t, owned.ImageURL)
	store.AssertExpectations(t)
	recipeRepo.AssertExpectations(t)
}

func TestImageService_RemoveImage_NoImageIsNoop(t *testing.T) {
	recipeRepo := new(MockRecipeRepository)
	store := new(MockImageStore)
	service := NewImageService(recipeRepo, store)
	ctx := context.Background()

	owned := savedRecipe(7, "Focaccia", "user-1")
	recipeRepo.On("FindByID", ctx, int64(7)).Return(owned, nil)

	err := service.RemoveImage(ctx, "user-1", 7)

	require.NoError(t, err)
	store.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
	recipeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
