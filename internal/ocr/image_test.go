package ocr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tabsyhq/tabsy-api/configs"
)

func TestResolveLocalPath(t *testing.T) {
	orig := configs.UPLOAD_DIR
	configs.UPLOAD_DIR = "uploads"
	defer func() { configs.UPLOAD_DIR = orig }()

	if got := resolveLocalPath("flare.jpg"); got != filepath.Join("uploads", "flare.jpg") {
		t.Errorf("relative path = %q, want uploads/flare.jpg", got)
	}

	abs := filepath.Join(string(filepath.Separator), "tmp", "flare.jpg")
	if got := resolveLocalPath(abs); got != abs {
		t.Errorf("absolute path = %q, want %q unchanged", got, abs)
	}
}

func TestFetchImageData_ReadsFromUploadDir(t *testing.T) {
	orig := configs.UPLOAD_DIR
	configs.UPLOAD_DIR = t.TempDir()
	defer func() { configs.UPLOAD_DIR = orig }()

	want := []byte("not really a png")
	if err := os.WriteFile(filepath.Join(configs.UPLOAD_DIR, "sheet.png"), want, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	data, mimeType, err := fetchImageData(context.Background(), "sheet.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(want) {
		t.Errorf("data = %q, want %q", data, want)
	}
	if mimeType != "image/png" {
		t.Errorf("mimeType = %q, want image/png", mimeType)
	}
}
