// Package gallery manages uploaded property images: blobs in object
// storage, metadata in the key-value store under the "image:" namespace.
package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rainbow-properties/internal/kvstore"
	"rainbow-properties/internal/models"
	"rainbow-properties/internal/objstore"
	"rainbow-properties/internal/reconcile"
)

const keyPrefix = "image:"

// Signed download links last a year; after that the URL in the metadata
// record goes stale and consumers must re-sign or tolerate the dead link.
const signedURLTTL = 365 * 24 * time.Hour

// Service maintains the image catalog.
type Service struct {
	store    kvstore.Store
	blobs    objstore.Store
	recorder *reconcile.Recorder
}

// NewService creates a gallery over the given stores.
func NewService(store kvstore.Store, blobs objstore.Store, recorder *reconcile.Recorder) *Service {
	return &Service{store: store, blobs: blobs, recorder: recorder}
}

// Upload writes the blob, signs a download URL and stores the metadata, in
// that order. If a later step fails the blob is removed again; if that
// compensation also fails a reconciliation record is written so the sweep
// can clean up the orphan.
func (s *Service) Upload(ctx context.Context, originalName string, size int64, contentType string, data io.Reader, callerID string) (*models.PropertyImage, error) {
	fileName := uuid.NewString() + path.Ext(originalName)

	if err := s.blobs.Upload(ctx, fileName, data, contentType); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	url, err := s.blobs.SignedURL(ctx, fileName, signedURLTTL)
	if err != nil {
		s.compensateUpload(ctx, fileName, "signed URL issuance failed")
		return nil, fmt.Errorf("sign image url: %w", err)
	}

	image := models.PropertyImage{
		FileName:     fileName,
		OriginalName: originalName,
		Size:         size,
		Type:         contentType,
		URL:          url,
		UploadedBy:   callerID,
		UploadedAt:   time.Now().UTC(),
	}

	if err := s.store.Set(ctx, keyPrefix+fileName, image); err != nil {
		s.compensateUpload(ctx, fileName, "metadata write failed")
		return nil, fmt.Errorf("store image metadata: %w", err)
	}
	return &image, nil
}

// List returns all image metadata in store iteration order, dropping
// entries that do not decode.
func (s *Service) List(ctx context.Context) ([]models.PropertyImage, error) {
	entries, err := s.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("fetch images: %w", err)
	}

	images := make([]models.PropertyImage, 0, len(entries))
	for _, entry := range entries {
		var img models.PropertyImage
		if len(entry.Value) == 0 || json.Unmarshal(entry.Value, &img) != nil {
			continue
		}
		images = append(images, img)
	}
	return images, nil
}

// Delete removes the blob first; only on success is the metadata entry
// deleted. A failed blob delete keeps the metadata, so the image still
// appears to exist — correctly, since its blob was not removed. A failed
// metadata delete after the blob is gone leaves a reconciliation record.
func (s *Service) Delete(ctx context.Context, fileName string) error {
	if err := s.blobs.Remove(ctx, fileName); err != nil {
		return fmt.Errorf("delete image blob: %w", err)
	}

	if err := s.store.Delete(ctx, keyPrefix+fileName); err != nil {
		s.recorder.Record(ctx, reconcile.ActionRemoveMeta, keyPrefix+fileName,
			"metadata delete failed after blob removal")
		return fmt.Errorf("delete image metadata: %w", err)
	}
	return nil
}

func (s *Service) compensateUpload(ctx context.Context, fileName, reason string) {
	if err := s.blobs.Remove(ctx, fileName); err != nil {
		zap.S().Errorw("failed to remove orphaned blob", "fileName", fileName, "error", err)
		s.recorder.Record(ctx, reconcile.ActionRemoveBlob, fileName, reason)
	}
}
