package artifact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	apperrors "github.com/templepass/ai-service/pkg/errors"
)

// ObjectStoreSource downloads the model artifact from S3-compatible storage,
// so deployments can ship bundles without baking them into the image.
type ObjectStoreSource struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewObjectStoreSource constructs the source.
func NewObjectStoreSource(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*ObjectStoreSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return &ObjectStoreSource{client: client, bucket: bucket, logger: logger.With("component", "artifact.objectstore")}, nil
}

// Fetch downloads and decodes the bundle stored under key.
func (s *ObjectStoreSource) Fetch(ctx context.Context, key string) (*Bundle, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLoadError, fmt.Sprintf("fetch model artifact %s/%s", s.bucket, key), err)
	}
	defer obj.Close()
	if _, err := obj.Stat(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLoadError, fmt.Sprintf("stat model artifact %s/%s", s.bucket, key), err)
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLoadError, fmt.Sprintf("read model artifact %s/%s", s.bucket, key), err)
	}
	s.logger.Info("model artifact downloaded", "bucket", s.bucket, "key", key, "bytes", len(data))
	return Decode(data)
}

func sanitizeEndpoint(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	return strings.TrimSuffix(endpoint, "/")
}
