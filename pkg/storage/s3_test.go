package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// s3CodeError implements smithy.APIError with a fixed code.
type s3CodeError struct {
	code string
}

func (e *s3CodeError) Error() string                 { return e.code }
func (e *s3CodeError) ErrorCode() string             { return e.code }
func (e *s3CodeError) ErrorMessage() string          { return e.code }
func (e *s3CodeError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// fakeS3 is an in-memory S3API with per-call error injection.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte

	getErr  error
	putErr  error
	headErr error
	delErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &s3CodeError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &s3CodeError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.delErr != nil {
		return nil, f.delErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) seed(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
}

func (f *fakeS3) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func TestS3RoundTrip(t *testing.T) {
	fake := newFakeS3()
	store := NewS3(fake, "bucket", "transcripts")
	ctx := context.Background()

	w, err := store.Write(ctx, "2026/result.yaml")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := io.WriteString(w, "text: 你好"); err != nil {
		t.Fatalf("write error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if !fake.has("transcripts/2026/result.yaml") {
		t.Fatal("object not stored under prefixed key")
	}

	r, err := store.Read(ctx, "2026/result.yaml")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "text: 你好" {
		t.Errorf("read back %q, want %q", got, "text: 你好")
	}
}

func TestS3ReadMissing(t *testing.T) {
	store := NewS3(newFakeS3(), "bucket", "")

	_, err := store.Read(context.Background(), "ghost")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Read() error = %v, want fs.ErrNotExist", err)
	}
}

func TestS3ReadPassesThroughOtherErrors(t *testing.T) {
	fake := newFakeS3()
	fake.getErr = errors.New("connection reset")
	store := NewS3(fake, "bucket", "")

	_, err := store.Read(context.Background(), "x")
	if err == nil {
		t.Fatal("Read() succeeded, want error")
	}
	if errors.Is(err, fs.ErrNotExist) {
		t.Error("generic errors must not map to fs.ErrNotExist")
	}
}

func TestS3Exists(t *testing.T) {
	fake := newFakeS3()
	fake.seed("present", []byte("x"))
	store := NewS3(fake, "bucket", "")
	ctx := context.Background()

	if ok, err := store.Exists(ctx, "present"); err != nil || !ok {
		t.Errorf("Exists(present) = %v, %v, want true, nil", ok, err)
	}
	if ok, err := store.Exists(ctx, "absent"); err != nil || ok {
		t.Errorf("Exists(absent) = %v, %v, want false, nil", ok, err)
	}

	fake.headErr = errors.New("denied")
	if _, err := store.Exists(ctx, "x"); err == nil {
		t.Error("Exists() swallowed the transport error")
	}
}

func TestS3DeleteIdempotent(t *testing.T) {
	fake := newFakeS3()
	fake.seed("tmp", []byte("x"))
	store := NewS3(fake, "bucket", "")
	ctx := context.Background()

	if err := store.Delete(ctx, "ghost"); err != nil {
		t.Fatalf("Delete(ghost) error = %v", err)
	}
	if err := store.Delete(ctx, "tmp"); err != nil {
		t.Fatalf("Delete(tmp) error = %v", err)
	}
	if fake.has("tmp") {
		t.Error("object still present after Delete")
	}
}

func TestS3UploadErrorSurfacesOnClose(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("upload failed")
	store := NewS3(fake, "bucket", "")

	w, err := store.Write(context.Background(), "obj")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	// 管道可能在后台上传失败后立刻拒绝写入，这里不检查写入错误
	io.WriteString(w, "payload")
	if err := w.Close(); err == nil {
		t.Fatal("Close() = nil, want the upload error")
	}
}

func TestIsMissingObject(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no such key", &s3CodeError{code: "NoSuchKey"}, true},
		{"not found", &s3CodeError{code: "NotFound"}, true},
		{"access denied", &s3CodeError{code: "AccessDenied"}, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isMissingObject(tt.err); got != tt.want {
				t.Errorf("isMissingObject(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
