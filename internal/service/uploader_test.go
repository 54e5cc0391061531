package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
)

type fakeObjectStorage struct {
	uploadErr error
	lastKey   string
	lastType  string
}

func (f *fakeObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	f.lastKey = key
	f.lastType = contentType
	return f.uploadErr
}

func (f *fakeObjectStorage) GetURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (f *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestImageUploader_Upload(t *testing.T) {
	t.Run("valid image gets uploaded with a keyed URL", func(t *testing.T) {
		store := &fakeObjectStorage{}
		u := NewImageUploader(store, newTestLogger())

		url := u.Upload(context.Background(), pngBytes(t), "image/png", "solar-power")
		if url == "" {
			t.Fatal("expected URL, got empty")
		}
		if !strings.HasPrefix(store.lastKey, "articles/solar-power-") || !strings.HasSuffix(store.lastKey, ".png") {
			t.Errorf("unexpected object key: %q", store.lastKey)
		}
		if url != "https://cdn.example.com/"+store.lastKey {
			t.Errorf("URL does not match key: %q", url)
		}
	})

	t.Run("empty payload yields empty URL", func(t *testing.T) {
		u := NewImageUploader(&fakeObjectStorage{}, newTestLogger())
		if url := u.Upload(context.Background(), nil, "image/png", "x"); url != "" {
			t.Errorf("expected empty URL, got %q", url)
		}
	})

	t.Run("undecodable payload is rejected", func(t *testing.T) {
		store := &fakeObjectStorage{}
		u := NewImageUploader(store, newTestLogger())

		if url := u.Upload(context.Background(), []byte("not an image"), "image/png", "x"); url != "" {
			t.Errorf("expected empty URL, got %q", url)
		}
		if store.lastKey != "" {
			t.Error("nothing should be uploaded for a bad payload")
		}
	})

	t.Run("storage failure yields empty URL", func(t *testing.T) {
		store := &fakeObjectStorage{uploadErr: fmt.Errorf("bucket gone")}
		u := NewImageUploader(store, newTestLogger())

		if url := u.Upload(context.Background(), pngBytes(t), "image/png", "x"); url != "" {
			t.Errorf("expected empty URL, got %q", url)
		}
	})
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", "jpg"},
		{"image/png", "png"},
		{"image/webp", "webp"},
		{"image/gif", "gif"},
		{"application/octet-stream", "png"},
	}
	for _, tt := range tests {
		if got := extensionFor(tt.contentType); got != tt.want {
			t.Errorf("extensionFor(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
