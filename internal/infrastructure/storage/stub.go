package storage

import (
	"context"
	"errors"
	"time"

	recipeapp "github.com/mise/backend/internal/application/recipe"
)

// StubImageStorage is a placeholder ImageStore used when no storage
// bucket is configured. Upload URLs point at a fake host and every
// confirmation succeeds, which keeps the image flow usable in local
// development without an object store.
type StubImageStorage struct {
	// BaseURL is the base for generated URLs.
	// Defaults to "https://storage.invalid" if not set
	BaseURL string
}

// NewStubImageStorage creates a new StubImageStorage
func NewStubImageStorage() *StubImageStorage {
	return &StubImageStorage{
		BaseURL: "https://storage.invalid",
	}
}

// Ensure StubImageStorage implements ImageStore
var _ recipeapp.ImageStore = (*StubImageStorage)(nil)

// GenerateUploadURL generates a stub upload URL
func (s *StubImageStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// ObjectExists always reports true so the confirmation flow works
// without a real backend
func (s *StubImageStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}

// DeleteObject is a no-op that always succeeds
func (s *StubImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// PublicURL returns a stub public URL for the given key
func (s *StubImageStorage) PublicURL(storageKey string) string {
	return s.BaseURL + "/" + storageKey
}
