// image.go - Loading flare sheet photos from a URL or local disk

package ocr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tabsyhq/tabsy-api/configs"
)

var imageHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

// fetchImageData loads image bytes for an image reference.
// http(s) references are downloaded, everything else is read from disk.
func fetchImageData(ctx context.Context, imageRef string) ([]byte, string, error) {
	if strings.HasPrefix(imageRef, "http://") || strings.HasPrefix(imageRef, "https://") {
		return downloadImage(ctx, imageRef)
	}

	data, err := os.ReadFile(resolveLocalPath(imageRef))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image file: %w", err)
	}
	return data, mimeTypeForExt(imageRef), nil
}

// resolveLocalPath anchors relative image references under the upload
// directory. Absolute paths are used as given.
func resolveLocalPath(imageRef string) string {
	if filepath.IsAbs(imageRef) {
		return imageRef
	}
	return filepath.Join(configs.UPLOAD_DIR, imageRef)
}

func downloadImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := imageHTTPClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimeTypeForExt(imageURL)
	}
	return data, mimeType, nil
}

func mimeTypeForExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}
