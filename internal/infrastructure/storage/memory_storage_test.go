package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryObjectStorage("https://files.test/")

	require.NoError(t, m.Upload(ctx, "tenants/a/bookings/1/b.pdf", strings.NewReader("bb"), 2, "application/pdf"))
	require.NoError(t, m.Upload(ctx, "tenants/a/bookings/1/a.pdf", strings.NewReader("a"), 1, "application/pdf"))
	require.NoError(t, m.Upload(ctx, "tenants/b/bookings/1/c.pdf", strings.NewReader("c"), 1, "application/pdf"))

	objs, err := m.List(ctx, "tenants/a/")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "tenants/a/bookings/1/a.pdf", objs[0].Key)
	assert.Equal(t, int64(2), objs[1].Size)
	assert.Equal(t, "application/pdf", objs[1].ContentType)

	data, ok := m.Get("tenants/a/bookings/1/b.pdf")
	require.True(t, ok)
	assert.Equal(t, "bb", string(data))

	u, expiresAt, err := m.DownloadURL(ctx, "tenants/a/bookings/1/a.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://files.test/"))
	assert.True(t, expiresAt.After(time.Now()))

	require.NoError(t, m.Delete(ctx, "tenants/a/bookings/1/a.pdf"))
	exists, err := m.Exists(ctx, "tenants/a/bookings/1/a.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, m.Delete(ctx, "missing"))
	assert.ErrorIs(t, m.Upload(ctx, "", strings.NewReader(""), 0, ""), errKeyRequired)
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Driver: "memory"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryObjectStorage{}, s)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"}, zap.NewNop())
	require.Error(t, err)
}
