package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"mediapress/internal/config"
	"mediapress/internal/logging"
)

const downloadMaxRetries = 4

// MinioClient implements Client against an S3-compatible bucket.
type MinioClient struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioClient connects to the object store named by cfg.Storage.
func NewMinioClient(cfg *config.Config, logger *slog.Logger) (*MinioClient, error) {
	if !cfg.StorageConfigured() {
		return nil, fmt.Errorf("storage: endpoint and credentials are not configured")
	}
	client, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: connect %s: %w", cfg.Storage.Endpoint, err)
	}
	return &MinioClient{
		client: client,
		bucket: cfg.Storage.Bucket,
		logger: logging.NewComponentLogger(logger, "storage"),
	}, nil
}

func (c *MinioClient) Object(key string) Object {
	return &minioObject{client: c, key: key}
}

type minioObject struct {
	client *MinioClient
	key    string
}

func (o *minioObject) Key() string { return o.key }

func (o *minioObject) Exists(ctx context.Context) (bool, error) {
	_, err := o.client.client.StatObject(ctx, o.client.bucket, o.key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", o.key, err)
	}
	return true, nil
}

func (o *minioObject) Metadata(ctx context.Context) (map[string]string, error) {
	info, err := o.client.client.StatObject(ctx, o.client.bucket, o.key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", o.key, err)
	}
	// S3 canonicalizes user-metadata keys; fold them back to the lowercase
	// form the rest of the pipeline matches on.
	meta := make(map[string]string, len(info.UserMetadata))
	for k, v := range info.UserMetadata {
		meta[strings.ToLower(k)] = v
	}
	return meta, nil
}

func (o *minioObject) Download(ctx context.Context, destDir string) (string, error) {
	dest := filepath.Join(destDir, filepath.Base(o.key))
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadMaxRetries), ctx)
	start := time.Now()
	err := backoff.Retry(func() error {
		if err := o.client.client.FGetObject(ctx, o.client.bucket, o.key, dest, minio.GetObjectOptions{}); err != nil {
			if isNotFound(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, policy)
	if err != nil {
		return "", fmt.Errorf("storage: download %s: %w", o.key, err)
	}
	o.client.logger.Debug("object downloaded",
		logging.String("key", o.key),
		logging.Duration("elapsed", time.Since(start)))
	return dest, nil
}

func (o *minioObject) Upload(ctx context.Context, localPath string, metadata map[string]string) error {
	opts := minio.PutObjectOptions{
		UserMetadata: metadata,
		ContentType:  mime.TypeByExtension(filepath.Ext(localPath)),
	}
	if _, err := o.client.client.FPutObject(ctx, o.client.bucket, o.key, localPath, opts); err != nil {
		return fmt.Errorf("storage: upload %s: %w", o.key, err)
	}
	return nil
}

func (o *minioObject) Delete(ctx context.Context) error {
	err := o.client.client.RemoveObject(ctx, o.client.bucket, o.key, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("storage: delete %s: %w", o.key, err)
	}
	return nil
}

func (o *minioObject) UpdateMetadata(ctx context.Context, metadata map[string]string, replace bool) error {
	next := metadata
	if !replace {
		existing, err := o.Metadata(ctx)
		if err != nil {
			return err
		}
		for k, v := range metadata {
			existing[k] = v
		}
		next = existing
	}
	src := minio.CopySrcOptions{Bucket: o.client.bucket, Object: o.key}
	dst := minio.CopyDestOptions{
		Bucket:          o.client.bucket,
		Object:          o.key,
		UserMetadata:    next,
		ReplaceMetadata: true,
	}
	if _, err := o.client.client.CopyObject(ctx, dst, src); err != nil {
		return fmt.Errorf("storage: update metadata %s: %w", o.key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
