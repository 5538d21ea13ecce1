package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"ticketdesk_backend/internal/adapters/storage"
	"ticketdesk_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type fakeObjectStore struct {
	uploadedKey  string
	uploadedType string
	uploadedSize int64
	failUpload   bool
}

func (f *fakeObjectStore) EnsureBucketExists(ctx context.Context, bucket string) error { return nil }

func (f *fakeObjectStore) UploadObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if f.failUpload {
		return "", errors.New("storage unavailable")
	}
	f.uploadedKey = key
	f.uploadedType = contentType
	f.uploadedSize = size
	return "http://minio.local/" + bucket + "/" + key, nil
}

func (f *fakeObjectStore) DeleteObject(ctx context.Context, bucket, key string) error { return nil }

type fakeUploadConfig struct {
	maxFileSize int64
}

func (f fakeUploadConfig) GetMinIOEndpoint() string          { return "minio.local" }
func (f fakeUploadConfig) GetMinIOAccessKey() string         { return "test" }
func (f fakeUploadConfig) GetMinIOSecretKey() string         { return "test" }
func (f fakeUploadConfig) GetMinIOUseSSL() bool              { return false }
func (f fakeUploadConfig) GetMinIOMaxFileSize() int64        { return f.maxFileSize }
func (f fakeUploadConfig) GetMinioBucketTicketImages() string { return "ticket-images" }
func (f fakeUploadConfig) IsMinIOEnabled() bool              { return true }
func (f fakeUploadConfig) GetUploadPlaceholderURL() string   { return "https://placehold.co/600x400" }

func newUploadEngine(t *testing.T, store storage.ObjectStore, cfg Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(store, cfg, logger.New("development"))
	engine := gin.New()
	engine.POST("/uploads/image", h.UploadImage)
	return engine
}

func multipartImage(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	store := &fakeObjectStore{}
	engine := newUploadEngine(t, store, fakeUploadConfig{maxFileSize: 5 << 20})

	body, contentType := multipartImage(t, "photo.png", "image/png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		URL     string `json:"url"`
		Success bool   `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true")
	}
	if resp.URL != "http://minio.local/ticket-images/"+store.uploadedKey {
		t.Fatalf("unexpected url %q for key %q", resp.URL, store.uploadedKey)
	}
	if store.uploadedType != "image/png" {
		t.Fatalf("expected content type image/png, got %q", store.uploadedType)
	}
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	store := &fakeObjectStore{}
	engine := newUploadEngine(t, store, fakeUploadConfig{maxFileSize: 5 << 20})

	body, contentType := multipartImage(t, "notes.txt", "text/plain", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if store.uploadedKey != "" {
		t.Fatal("expected no upload for non-image file")
	}
}

func TestUploadImageRejectsOversizedFile(t *testing.T) {
	store := &fakeObjectStore{}
	engine := newUploadEngine(t, store, fakeUploadConfig{maxFileSize: 10})

	body, contentType := multipartImage(t, "photo.png", "image/png", bytes.Repeat([]byte("x"), 64))
	req := httptest.NewRequest(http.MethodPost, "/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if store.uploadedKey != "" {
		t.Fatal("expected no upload for oversized file")
	}
}

func TestUploadImageFallsBackToPlaceholderOnStorageError(t *testing.T) {
	store := &fakeObjectStore{failUpload: true}
	engine := newUploadEngine(t, store, fakeUploadConfig{maxFileSize: 5 << 20})

	body, contentType := multipartImage(t, "photo.jpg", "image/jpeg", []byte("fake jpeg"))
	req := httptest.NewRequest(http.MethodPost, "/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		URL     string `json:"url"`
		Success bool   `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false on storage failure")
	}
	if resp.URL != "https://placehold.co/600x400" {
		t.Fatalf("expected placeholder url, got %q", resp.URL)
	}
}

func TestUploadImageWithoutStorageUsesPlaceholder(t *testing.T) {
	engine := newUploadEngine(t, nil, fakeUploadConfig{maxFileSize: 5 << 20})

	body, contentType := multipartImage(t, "photo.png", "image/png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		URL     string `json:"url"`
		Success bool   `json:"success"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success || resp.URL != "https://placehold.co/600x400" {
		t.Fatalf("expected placeholder fallback, got %+v", resp)
	}
}
