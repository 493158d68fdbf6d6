package minio

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	buckets map[string]bool
	objects map[string][]byte
	puts    int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		buckets: make(map[string]bool),
		objects: make(map[string][]byte),
	}
}

func (f *fakeAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	f.buckets[bucket] = true
	return nil
}

func (f *fakeAPI) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.objects[bucket+"/"+key] = data
	f.puts++
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func (f *fakeAPI) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	data, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "key does not exist"}
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (f *fakeAPI) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if _, ok := f.objects[bucket+"/"+key]; !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", Message: "key does not exist"}
	}
	return minio.ObjectInfo{Key: key}, nil
}

func TestNewCreatesMissingBucket(t *testing.T) {
	api := newFakeAPI()

	_, err := newWithAPI(context.Background(), api, "land-documents")
	require.NoError(t, err)
	require.True(t, api.buckets["land-documents"])

	// A second init finds the bucket in place.
	_, err = newWithAPI(context.Background(), api, "land-documents")
	require.NoError(t, err)
}

func TestUploadDownload(t *testing.T) {
	api := newFakeAPI()
	st, err := newWithAPI(context.Background(), api, "land-documents")
	require.NoError(t, err)

	ctx := context.Background()
	payload := "deed of sale"
	require.NoError(t, st.Upload(ctx, "abc123", strings.NewReader(payload), int64(len(payload)), "application/pdf"))

	ok, err := st.Exists(ctx, "abc123")
	require.NoError(t, err)
	require.True(t, ok)

	obj, err := st.Download(ctx, "abc123")
	require.NoError(t, err)
	defer obj.Close()
	data, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.Equal(t, payload, string(data))
}

func TestUploadIsIdempotent(t *testing.T) {
	api := newFakeAPI()
	st, err := newWithAPI(context.Background(), api, "land-documents")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, st.Upload(ctx, "abc123", strings.NewReader("x"), 1, ""))
	require.NoError(t, st.Upload(ctx, "abc123", strings.NewReader("x"), 1, ""))
	require.Equal(t, 1, api.puts)
}

func TestExistsMissingKey(t *testing.T) {
	api := newFakeAPI()
	st, err := newWithAPI(context.Background(), api, "land-documents")
	require.NoError(t, err)

	ok, err := st.Exists(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}
