package s3

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"

	"github.com/windforest/windforest/internal/storage"
)

type fakeAPI struct {
	putKeys      []string
	madeBuckets  []string
	removeErr    error
	removedKeys  []string
	statObjects  map[string]minio.ObjectInfo
	bucketExists bool
}

func (f *fakeAPI) PutObject(_ context.Context, _ string, key string, _ io.Reader, size int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.putKeys = append(f.putKeys, key)
	return minio.UploadInfo{Key: key, Size: size}, nil
}

func (f *fakeAPI) GetObject(context.Context, string, string, minio.GetObjectOptions) (*minio.Object, error) {
	return nil, storage.ErrObjectNotFound
}

func (f *fakeAPI) StatObject(_ context.Context, _ string, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	if info, ok := f.statObjects[key]; ok {
		return info, nil
	}
	return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}
}

func (f *fakeAPI) RemoveObject(_ context.Context, _ string, key string, _ minio.RemoveObjectOptions) error {
	f.removedKeys = append(f.removedKeys, key)
	return f.removeErr
}

func (f *fakeAPI) BucketExists(context.Context, string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.madeBuckets = append(f.madeBuckets, bucket)
	return nil
}

func TestPutUsesPrefixAndNormalizedKey(t *testing.T) {
	fake := &fakeAPI{}
	store := &Store{client: fake, bucket: "snapshots", prefix: cleanPrefix("/windforest/")}

	_, err := store.Put(context.Background(), "/snapshots/s1/orders.parquet", bytes.NewReader(nil), 0, storage.PutOptions{})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if len(fake.putKeys) != 1 || fake.putKeys[0] != "windforest/snapshots/s1/orders.parquet" {
		t.Fatalf("put keys = %v", fake.putKeys)
	}
}

func TestPutRejectsPathTraversal(t *testing.T) {
	store := &Store{client: &fakeAPI{}, bucket: "snapshots"}

	if _, err := store.Put(context.Background(), "../../etc/passwd", bytes.NewReader(nil), 0, storage.PutOptions{}); err == nil {
		t.Fatal("Put() accepted traversal key")
	}
}

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	fake := &fakeAPI{bucketExists: false}
	store := &Store{client: fake, bucket: "snapshots"}

	if err := store.ensureBucket(context.Background(), "us-east-1"); err != nil {
		t.Fatalf("ensureBucket() error = %v", err)
	}
	if len(fake.madeBuckets) != 1 || fake.madeBuckets[0] != "snapshots" {
		t.Fatalf("made buckets = %v", fake.madeBuckets)
	}
}

func TestDeleteIgnoresMissingObject(t *testing.T) {
	fake := &fakeAPI{removeErr: minio.ErrorResponse{Code: "NoSuchKey"}}
	store := &Store{client: fake, bucket: "snapshots"}

	if err := store.Delete(context.Background(), "snapshots/s1/manifest.json"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestStatMapsMissingObject(t *testing.T) {
	store := &Store{client: &fakeAPI{}, bucket: "snapshots"}

	_, err := store.Stat(context.Background(), "snapshots/s1/manifest.json")
	if err != storage.ErrObjectNotFound {
		t.Fatalf("Stat() error = %v", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	cases := []struct {
		raw        string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"https://minio.example.com", false, "minio.example.com", true},
		{"http://localhost:9000", false, "localhost:9000", false},
		{"minio.internal:9000", true, "minio.internal:9000", true},
	}
	for _, tc := range cases {
		host, secure, err := parseEndpoint(tc.raw, tc.useSSL)
		if err != nil {
			t.Fatalf("parseEndpoint(%q) error = %v", tc.raw, err)
		}
		if host != tc.wantHost || secure != tc.wantSecure {
			t.Fatalf("parseEndpoint(%q) = %q, %v", tc.raw, host, secure)
		}
	}
}
