package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"oxypace/oxypace/config"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/logging"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MediaURLPrefix is the public path objects are proxied under.
const MediaURLPrefix = "/api/media/"

type MinIOClient struct {
	client *minio.Client
	bucket string
}

// Object is an open stored object. Callers must Close it.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
	ETag        string
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOSecure,
		},
	)
	if err != nil {
		return nil, err
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		logging.AppLogger.Info("created media bucket", zap.String("bucket", bucket))
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

// NewKey returns a fresh object key keeping the extension of filename.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.New().String() + ext
}

// PublicURL is the proxying URL a stored key is served from.
func PublicURL(key string) string {
	return MediaURLPrefix + key
}

// ValidKey rejects keys that could escape the flat key space.
func ValidKey(key string) bool {
	if key == "" || len(key) > 128 {
		return false
	}
	return !strings.ContainsAny(key, "/\\") && !strings.HasPrefix(key, ".")
}

func (m *MinIOClient) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (m *MinIOClient) Open(ctx context.Context, key string) (*Object, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key.
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("media %s: %w", key, errs.ErrNotFound)
		}
		return nil, err
	}
	return &Object{
		ReadCloser:  obj,
		ContentType: info.ContentType,
		Size:        info.Size,
		ETag:        info.ETag,
	}, nil
}
