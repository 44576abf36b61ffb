package controllers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"oxypace/oxypace/sources/storage"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/logging"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// MaxUploadSize caps a single media upload.
const MaxUploadSize = 10 << 20

var allowedMedia = map[string]string{
	"image/jpeg": "image",
	"image/png":  "image",
	"image/webp": "image",
	"image/gif":  "gif",
	"video/mp4":  "video",
}

// MediaStore is the object storage the media endpoints use. *storage.MinIOClient satisfies it.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (*storage.Object, error)
}

type MediaController struct {
	store MediaStore
}

func NewMediaController(store MediaStore) *MediaController {
	return &MediaController{store: store}
}

// Upload sniffs the content, rejects types outside the allow list and stores it
// under a fresh key.
func (c *MediaController) Upload(ctx context.Context, r io.Reader) (*types.MediaUploadResponse, error) {
	if c.store == nil {
		return nil, fmt.Errorf("media storage: %w", errs.ErrUnavailable)
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, errs.BadRequest("could not read upload")
	}
	if len(data) == 0 {
		return nil, errs.BadRequest("file is empty")
	}
	if len(data) > MaxUploadSize {
		return nil, errs.BadRequest("file exceeds the 10 MB limit")
	}

	mt := mimetype.Detect(data)
	contentType := mt.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	kind, ok := allowedMedia[contentType]
	if !ok {
		return nil, errs.BadRequest(fmt.Sprintf("unsupported media type %s", contentType))
	}

	key := storage.NewKey("upload" + mt.Extension())
	if err := c.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}
	logging.AppLogger.Info("media uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int("size", len(data)),
	)
	return &types.MediaUploadResponse{
		Key:         key,
		URL:         storage.PublicURL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
		MediaType:   kind,
	}, nil
}

// Open returns the stored object. Callers close it.
func (c *MediaController) Open(ctx context.Context, key string) (*storage.Object, error) {
	if !storage.ValidKey(key) {
		return nil, errs.NotFound("media not found")
	}
	if c.store == nil {
		return nil, fmt.Errorf("media storage: %w", errs.ErrUnavailable)
	}
	obj, err := c.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	return obj, nil
}
