package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/egoexo-val/videoval/internal/progress"
)

func writeTempFile(t *testing.T, name string, size int) (string, []byte) {
	t.Helper()
	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, data
}

func TestUploadStreamsMultipartBody(t *testing.T) {
	path, want := writeTempFile(t, "take1.mp4", 1<<20)

	var gotFolder, gotFilename string
	var gotData []byte
	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		require.Equal(t, "/uploads", r.URL.Path)
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		mr, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			switch part.FormName() {
			case "folder":
				b, _ := io.ReadAll(part)
				gotFolder = string(b)
			case "file":
				gotFilename = part.FileName()
				gotData, _ = io.ReadAll(part)
			}
		}

		writeJSON(w, 200, map[string]interface{}{
			"upload_id":  "u1",
			"filename":   gotFilename,
			"folder":     gotFolder,
			"status":     "pending",
			"status_url": "/status/u1",
		})
	}))

	var reports []progress.Report
	result, err := client.Upload(context.Background(), path, "captures/cam1", func(rep progress.Report) {
		reports = append(reports, rep)
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", result.UploadID)
	assert.Equal(t, "take1.mp4", result.Filename)
	assert.Equal(t, "captures/cam1", result.Folder)
	assert.Equal(t, "pending", result.Status)

	assert.Equal(t, "captures/cam1", gotFolder)
	assert.True(t, bytes.Equal(want, gotData), "uploaded bytes differ from the source file")

	require.NotEmpty(t, reports)
	last := reports[len(reports)-1]
	assert.Equal(t, 100, last.Percent)
	assert.Equal(t, int64(len(want)), last.Loaded)
}

func TestUploadWithRateLimit(t *testing.T) {
	path, want := writeTempFile(t, "take1.mp4", 64<<10)

	var gotLen int
	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		mr, err := r.MultipartReader()
		require.NoError(t, err)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			if part.FormName() == "file" {
				b, _ := io.ReadAll(part)
				gotLen = len(b)
			}
		}
		writeJSON(w, 200, map[string]string{"upload_id": "u1"})
	}))

	// Generous cap so the test stays fast; the throttled path is still
	// exercised end to end.
	client.SetUploadLimit(100 << 20)

	result, err := client.Upload(context.Background(), path, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "u1", result.UploadID)
	assert.Equal(t, len(want), gotLen)
}

func TestUploadSurfacesRejection(t *testing.T) {
	path, _ := writeTempFile(t, "take1.mp4", 256)

	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, 400, map[string]string{"detail": "Upload failed: object too large"})
	}))

	_, err := client.Upload(context.Background(), path, "", nil)
	require.Error(t, err)
	assert.Equal(t, "Upload failed: object too large", err.Error())
}

func TestUploadMissingFile(t *testing.T) {
	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		t.Fatal("no request expected for a missing local file")
	}))

	_, err := client.Upload(context.Background(), filepath.Join(t.TempDir(), "gone.mp4"), "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUploadHonorsCancellation(t *testing.T) {
	path, _ := writeTempFile(t, "take1.mp4", 1<<20)

	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, 200, map[string]string{"upload_id": "u1"})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Upload(ctx, path, "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUploadCarriesSessionCookie(t *testing.T) {
	path, _ := writeTempFile(t, "take1.mp4", 256)

	var sawCookie bool
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/auth/login", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.SetCookie(w, &nethttp.Cookie{Name: "egoexo_auth", Value: "tok", Path: "/"})
		writeJSON(w, 200, map[string]bool{"ok": true})
	})
	mux.HandleFunc("/uploads", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, err := r.Cookie("egoexo_auth")
		sawCookie = err == nil
		_, _ = io.Copy(io.Discard, r.Body)
		writeJSON(w, 200, map[string]string{"upload_id": "u1"})
	})

	client, _ := newTestClient(t, mux)
	require.NoError(t, client.Login(context.Background(), "s"))

	_, err := client.Upload(context.Background(), path, "", nil)
	require.NoError(t, err)
	assert.True(t, sawCookie, "upload request lacked the session cookie")
}

func TestUploadDecodesValidationVerdict(t *testing.T) {
	path, _ := writeTempFile(t, "take1.mp4", 256)

	client, _ := newTestClient(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"upload_id":    "u1",
			"filename":     "take1.mp4",
			"status":       "bad",
			"passed":       false,
			"validated_at": "2026-02-01T10:00:00Z",
			"message":      "validation failed",
			"issues":       []string{"duration below minimum", "missing audio track"},
		})
	}))

	result, err := client.Upload(context.Background(), path, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "bad", result.Status)
	require.NotNil(t, result.Passed)
	assert.False(t, *result.Passed)
	assert.Equal(t, []string{"duration below minimum", "missing audio track"}, result.Issues)
}
