// Package storage provides object storage for delivery notes and booking attachments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/tms/backend/internal/application/document"
	"github.com/tms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ document.ObjectStorage = (*S3ObjectStorage)(nil)

var errKeyRequired = errors.New("storage key is required")

const (
	defaultRegion        = "us-east-1"
	defaultPresignExpiry = 15 * time.Minute
)

// S3ObjectStorage keeps documents in a single bucket of an S3-compatible
// service. MinIO works with UsePathStyle.
type S3ObjectStorage struct {
	client            *s3.Client
	presign           *s3.PresignClient
	bucket            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3Option tunes an S3ObjectStorage
type S3Option func(*S3ObjectStorage)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3ObjectStorage) { s.logger = logger.Named("s3") }
}

// WithPresignExpiration overrides the configured download URL lifetime
func WithPresignExpiration(d time.Duration) S3Option {
	return func(s *S3ObjectStorage) { s.presignExpiration = d }
}

// NewS3ObjectStorage builds the client; it does not contact the service
func NewS3ObjectStorage(cfg *config.StorageConfig, opts ...S3Option) (*S3ObjectStorage, error) {
	if err := checkS3Config(cfg); err != nil {
		return nil, err
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 client config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := &S3ObjectStorage{
		client:            client,
		presign:           s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		presignExpiration: cfg.PresignExpiry,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiration <= 0 {
		s.presignExpiration = defaultPresignExpiry
	}
	return s, nil
}

func checkS3Config(cfg *config.StorageConfig) error {
	switch {
	case cfg == nil:
		return errors.New("storage configuration is required")
	case cfg.Bucket == "":
		return errors.New("storage bucket is required")
	case cfg.AccessKeyID == "":
		return errors.New("storage access key is required")
	case cfg.SecretAccessKey == "":
		return errors.New("storage secret key is required")
	}
	return nil
}

// normalizeEndpoint defaults a bare host:port to https
func normalizeEndpoint(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid storage endpoint %q", raw)
	}
	return raw, nil
}

// isMissing reports S3 "does not exist" errors. Services disagree on the
// code for HEAD requests, so the API code is compared by name.
func isMissing(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NotFound", "NoSuchKey", "NoSuchBucket", "404":
		return true
	}
	return false
}

// EnsureBucket creates the bucket when it is missing
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket})
	switch {
	case err == nil:
		return nil
	case !isMissing(err):
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: &s.bucket}); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores body under key. A negative size streams without a length.
func (s *S3ObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" {
		return errKeyRequired
	}
	in := &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	s.logger.Debug("Object stored", zap.String("key", key), zap.Int64("size", size))
	return nil
}

// DownloadURL presigns a GET for key
func (s *S3ObjectStorage) DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = s.presignExpiration
	}
	signed, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: &s.bucket, Key: &key},
		s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return signed.URL, time.Now().Add(expiresIn), nil
}

// Exists issues a HEAD for key
func (s *S3ObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errKeyRequired
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	switch {
	case err == nil:
		return true, nil
	case isMissing(err):
		return false, nil
	}
	return false, fmt.Errorf("head object %s: %w", key, err)
}

// List walks every page under prefix
func (s *S3ObjectStorage) List(ctx context.Context, prefix string) ([]document.ObjectInfo, error) {
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &prefix,
	})
	var objects []document.ObjectInfo
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, document.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

// Delete removes key; S3 treats a missing key as deleted
func (s *S3ObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errKeyRequired
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// Bucket returns the bucket name
func (s *S3ObjectStorage) Bucket() string {
	return s.bucket
}
