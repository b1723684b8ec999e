package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testS3Config() *config.StorageConfig {
	return &config.StorageConfig{
		Driver:          "s3",
		Bucket:          "tms-test",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := testS3Config()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key", func(t *testing.T) {
		cfg := testS3Config()
		cfg.AccessKeyID = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key", func(t *testing.T) {
		cfg := testS3Config()
		cfg.SecretAccessKey = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewS3ObjectStorage(testS3Config())
		require.NoError(t, err)
		assert.Equal(t, "tms-test", s.Bucket())
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})

	t.Run("endpoint without scheme", func(t *testing.T) {
		cfg := testS3Config()
		cfg.Endpoint = "minio.internal:9000"
		_, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
	})
}

func TestS3ObjectStorage_Options(t *testing.T) {
	s, err := NewS3ObjectStorage(testS3Config(),
		WithLogger(zaptest.NewLogger(t)),
		WithPresignExpiration(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.presignExpiration)
	assert.NotNil(t, s.logger)
}

func TestS3ObjectStorage_DownloadURL(t *testing.T) {
	s, err := NewS3ObjectStorage(testS3Config())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.DownloadURL(ctx, "", time.Minute)
	assert.ErrorIs(t, err, errKeyRequired)

	u, expiresAt, err := s.DownloadURL(ctx, "tenants/abc/dispatches/DSP-1.pdf", 0)
	require.NoError(t, err)
	assert.True(t, strings.Contains(u, "localhost:9000"))
	assert.True(t, strings.Contains(u, "tms-test"))
	assert.True(t, strings.Contains(u, "X-Amz-Signature"))
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	s, err := NewS3ObjectStorage(testS3Config())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, s.Upload(ctx, "", bytes.NewReader(nil), 0, "text/plain"), errKeyRequired)
	assert.ErrorIs(t, s.Delete(ctx, ""), errKeyRequired)
	_, err = s.Exists(ctx, "")
	assert.ErrorIs(t, err, errKeyRequired)
}

// Runs against a live S3-compatible endpoint, e.g.
// TMS_TEST_S3_ENDPOINT=http://localhost:9000 with minioadmin credentials.
func TestS3ObjectStorage_Integration(t *testing.T) {
	endpoint := os.Getenv("TMS_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("TMS_TEST_S3_ENDPOINT not set")
	}
	cfg := testS3Config()
	cfg.Endpoint = endpoint
	cfg.AccessKeyID = os.Getenv("TMS_TEST_S3_ACCESS_KEY")
	cfg.SecretAccessKey = os.Getenv("TMS_TEST_S3_SECRET_KEY")

	s, err := NewS3ObjectStorage(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.EnsureBucket(ctx))

	key := "integration/" + time.Now().Format("150405.000") + ".txt"
	data := []byte("delivery note")
	require.NoError(t, s.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "text/plain"))

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	objs, err := s.List(ctx, "integration/")
	require.NoError(t, err)
	assert.NotEmpty(t, objs)

	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, isMissing(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.True(t, isMissing(fmt.Errorf("wrapped: %w", &smithy.GenericAPIError{Code: "NoSuchKey"})))
	assert.False(t, isMissing(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isMissing(errors.New("NotFound")))
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio.internal:9000")
	require.NoError(t, err)
	assert.Equal(t, "https://minio.internal:9000", got)

	got, err = normalizeEndpoint("http://localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", got)

	got, err = normalizeEndpoint("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
