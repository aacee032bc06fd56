package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/egoexo-val/videoval/internal/models"
	"github.com/egoexo-val/videoval/internal/progress"
	"github.com/egoexo-val/videoval/internal/ratelimit"
)

// Upload streams one file to POST /uploads as a multipart body with the
// destination folder field, reporting progress on every chunk read. The
// body is piped rather than buffered, so memory stays flat regardless of
// file size; the known file size serves as the progress total since the
// chunked body length is unknown.
//
// Uploads are never retried: the stream cannot be replayed, and a failed
// file aborts the whole submit by contract.
func (c *Client) Upload(ctx context.Context, localPath, folder string, onProgress progress.Func) (*models.UploadResult, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fallbackUpload, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fallbackUpload, err)
	}

	meter := progress.NewMeter(info.Size())
	src := progress.NewReader(file, info.Size(), meter, onProgress)
	throttled := ratelimit.NewReader(ctx, src, c.uploadLimit)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		if err := mw.WriteField("folder", folder); err != nil {
			pw.CloseWithError(err)
			return
		}
		part, err := mw.CreateFormFile("file", filepath.Base(localPath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, throttled); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, c.baseURL.String()+"/uploads", pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return nil, wrapTransport(fallbackUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp, fallbackUpload)
	}

	var result models.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: unexpected response body: %w", fallbackUpload, err)
	}
	return &result, nil
}
