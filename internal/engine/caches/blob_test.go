package caches_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/telemetry"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports/mocks"
	"go.trai.ch/keep/internal/engine/caches"
	"go.uber.org/mock/gomock"
)

var blobConfig = domain.CacheConfig{TTL: 30 * time.Minute, MaxSize: 10}

func TestBlobCache_EncodesAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	objects.EXPECT().
		Fetch(gomock.Any(), domain.BucketAttachments, "logo").
		Return([]byte("hello"), nil).
		Times(1)

	c := caches.NewBlobCache(blobConfig, objects, logger, telemetry.NewNoOpTracer())

	got, ok := c.Get(context.Background(), "logo")
	require.True(t, ok)
	assert.Equal(t, "aGVsbG8=", got)

	got, ok = c.Get(context.Background(), "logo")
	require.True(t, ok)
	assert.Equal(t, "aGVsbG8=", got)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestBlobCache_FetchFailureIsAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	objects.EXPECT().
		Fetch(gomock.Any(), domain.BucketAttachments, "missing").
		Return(nil, domain.ErrObjectNotFound)
	logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	})

	c := caches.NewBlobCache(blobConfig, objects, logger, telemetry.NewNoOpTracer())

	got, ok := c.Get(context.Background(), "missing")
	assert.False(t, ok)
	assert.Empty(t, got)
	assert.Zero(t, c.Stats().Size)
}

func TestBlobCache_DataURI(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	objects.EXPECT().
		Fetch(gomock.Any(), domain.BucketAttachments, "logo").
		Return([]byte{0x89, 0x50, 0x4e, 0x47}, nil)

	c := caches.NewBlobCache(blobConfig, objects, logger, telemetry.NewNoOpTracer())

	uri, ok := c.DataURI(context.Background(), "logo", "image/png")
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,iVBORw==", uri)

	uri, ok = c.DataURI(context.Background(), "logo", "")
	require.True(t, ok)
	assert.Equal(t, "data:application/octet-stream;base64,iVBORw==", uri)
}

func TestBlobCache_BatchGetPartial(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	objects.EXPECT().Fetch(gomock.Any(), domain.BucketAttachments, "a").Return([]byte("a"), nil).Times(1)
	objects.EXPECT().Fetch(gomock.Any(), domain.BucketAttachments, "b").Return(nil, errors.New("permission denied")).Times(1)
	logger.EXPECT().Error(gomock.Any()).Times(1)

	c := caches.NewBlobCache(blobConfig, objects, logger, telemetry.NewNoOpTracer())

	got := c.BatchGet(context.Background(), []string{"a", "b", "a"})

	assert.Equal(t, map[string]string{"a": "YQ=="}, got)
}

func TestBlobCache_DeleteAndClear(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	objects.EXPECT().Fetch(gomock.Any(), domain.BucketAttachments, gomock.Any()).Return([]byte("x"), nil).Times(3)

	c := caches.NewBlobCache(blobConfig, objects, logger, telemetry.NewNoOpTracer())
	ctx := context.Background()

	c.Get(ctx, "a")
	c.Get(ctx, "b")
	c.Delete("a")
	assert.Equal(t, 1, c.Stats().Size)

	c.Get(ctx, "a")
	c.Clear()
	assert.Zero(t, c.Stats().Size)
}
