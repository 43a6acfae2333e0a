package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"stickynote/internal/config"
)

const bucketCheckTimeout = 10 * time.Second

// MinIO implements Storage on an S3-compatible bucket. Safe for concurrent use.
type MinIO struct {
	client *minio.Client
	bucket string
}

var _ Storage = (*MinIO)(nil)

// NewMinIO connects to the endpoint in cfg and creates the bucket when it is
// missing. Requests are traced through otelhttp.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*MinIO, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("storage: minio config: %w", err)
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: minio client: %w", err)
	}

	m := &MinIO{client: cli, bucket: cfg.Bucket}
	if err := m.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MinIO) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, bucketCheckTimeout)
	defer cancel()

	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("storage: bucket %s: %w", m.bucket, err)
	}
	if ok {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", m.bucket, err)
	}
	return nil
}

// Put streams r into the bucket. A Size of -1 lets the client chunk the upload.
func (m *MinIO) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	ct := opt.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	up, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, minio.PutObjectOptions{
		ContentType:  ct,
		UserMetadata: opt.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("storage: put %s: %w", key, err)
	}
	modified := up.LastModified
	if modified.IsZero() {
		modified = time.Now().UTC()
	}
	return ObjectInfo{
		Key:          key,
		Size:         up.Size,
		ETag:         up.ETag,
		ContentType:  ct,
		LastModified: modified,
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens key for reading. GetObject is lazy, so the object is stat'ed
// first to report a missing key as ErrNotFound.
func (m *MinIO) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("storage: get %s: %w", key, err)
	}
	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("storage: stat %s: %w", key, err)
	}
	return obj, objectInfo(key, st), nil
}

// Delete removes key. S3 reports success for a missing key.
func (m *MinIO) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

func (m *MinIO) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	switch {
	case err == nil:
		return true, nil
	case isNoSuchKey(err):
		return false, nil
	default:
		return false, fmt.Errorf("storage: stat %s: %w", key, err)
	}
}

func objectInfo(key string, st minio.ObjectInfo) ObjectInfo {
	return ObjectInfo{
		Key:          key,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}
}

func isNoSuchKey(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
