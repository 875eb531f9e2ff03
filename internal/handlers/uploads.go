// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"qaboard/internal/imaging"
	"qaboard/internal/metrics"
	"qaboard/internal/middleware"
	"qaboard/internal/models"
	"qaboard/internal/storage"
)

const (
	// maxVideoSize is the largest accepted video upload (100 MB).
	maxVideoSize = 100 << 20

	// maxImageSize is the largest accepted image upload (10 MB).
	maxImageSize = 10 << 20
)

// Uploader stores objects on the media host. Upload returns the public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// MediaRecorder records uploaded objects. *store.MediaStore implements it.
type MediaRecorder interface {
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
}

// Uploads accepts reply videos and review images.
type Uploads struct {
	storage Uploader
	media   MediaRecorder
}

// NewUploads creates the upload handlers. A nil storage makes every
// upload answer 503. A nil media recorder skips the Media rows.
func NewUploads(up Uploader, media MediaRecorder) *Uploads {
	return &Uploads{storage: up, media: media}
}

// Video handles a multipart "video" field.
func (h *Uploads) Video(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "media storage is not configured")
		return
	}

	data, header, ok := readUpload(w, r, "video", maxVideoSize)
	if !ok {
		return
	}
	contentType := detectType(data, header)
	if !strings.HasPrefix(contentType, "video/") {
		metrics.MediaUploads.WithLabelValues("video", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "file must be a video")
		return
	}

	key := fmt.Sprintf("uploads/videos/%s%s", uuid.NewString(), extensionFor(header, contentType))
	url, ok := h.persist(w, r, models.MediaVideo, key, contentType, header, data)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"video_url": url})
}

// Image handles a multipart "image" field. Images larger than the review
// bounding box are downscaled before upload.
func (h *Uploads) Image(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, "media storage is not configured")
		return
	}

	data, header, ok := readUpload(w, r, "image", maxImageSize)
	if !ok {
		return
	}
	contentType := detectType(data, header)
	if !strings.HasPrefix(contentType, "image/") {
		metrics.MediaUploads.WithLabelValues("image", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "file must be an image")
		return
	}

	if contentType == "image/svg+xml" {
		metrics.MediaUploads.WithLabelValues("image", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "SVG images are not accepted")
		return
	}

	ext := extensionFor(header, contentType)
	resized, err := imaging.Fit(data, imaging.MaxWidth, imaging.MaxHeight, imaging.DefaultQuality)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		metrics.MediaUploads.WithLabelValues("image", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "image dimensions too large")
		return
	case err != nil:
		// Formats without a registered decoder are stored as uploaded.
		slog.Warn("image resize skipped", "error", err, "filename", header.Filename)
	case resized != nil:
		data, contentType = resized.Data, resized.ContentType
		ext = extensionFromType(contentType)
	}

	key := fmt.Sprintf("review_uploads/images/%s%s", uuid.NewString(), ext)
	url, ok := h.persist(w, r, models.MediaImage, key, contentType, header, data)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"image_url": url, "success": true})
}

// uploadHeader is the part of multipart.FileHeader the handlers use.
type uploadHeader struct {
	Filename    string
	ContentType string
}

func readUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]byte, uploadHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+1024)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file too large, maximum is %d MB", limit>>20))
		} else {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
		}
		return nil, uploadHeader{}, false
	}

	file, fh, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no "+field+" file provided")
		return nil, uploadHeader{}, false
	}
	defer file.Close()

	if fh.Size > limit {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("file too large, maximum is %d MB", limit>>20))
		return nil, uploadHeader{}, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return nil, uploadHeader{}, false
	}
	return data, uploadHeader{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type")}, true
}

// detectType sniffs the content type. When sniffing is inconclusive the
// declared part type is used.
func detectType(data []byte, h uploadHeader) string {
	sniffed := http.DetectContentType(data)
	if sniffed != "application/octet-stream" && !strings.HasPrefix(sniffed, "text/") {
		return sniffed
	}
	if declared, _, err := mime.ParseMediaType(h.ContentType); err == nil && declared != "" {
		return declared
	}
	return sniffed
}

func (h *Uploads) persist(w http.ResponseWriter, r *http.Request, kind models.MediaKind, key, contentType string, header uploadHeader, data []byte) (string, bool) {
	ctx := r.Context()
	url, err := h.storage.Upload(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		metrics.MediaUploads.WithLabelValues(string(kind), "failed").Inc()
		if errors.Is(err, storage.ErrUnavailable) {
			slog.Warn("media host unavailable", "key", key)
			writeError(w, http.StatusServiceUnavailable, "media storage is temporarily unavailable")
			return "", false
		}
		serverError(w, r, "media upload failed", err)
		return "", false
	}
	if h.media != nil {
		_, err := h.media.Create(ctx, &models.Media{
			Kind:         kind,
			Filename:     filepath.Base(key),
			OriginalName: header.Filename,
			ContentType:  contentType,
			SizeBytes:    int64(len(data)),
			Bucket:       h.storage.Bucket(),
			S3Key:        key,
			UploaderID:   middleware.SessionFromCtx(ctx).UserID,
		})
		if err != nil {
			// Every stored object must have a Media row.
			if derr := h.storage.Delete(context.WithoutCancel(ctx), key); derr != nil {
				slog.Error("orphaned media object", "error", derr, "key", key)
			}
			metrics.MediaUploads.WithLabelValues(string(kind), "failed").Inc()
			serverError(w, r, "media record create failed", err)
			return "", false
		}
	}
	metrics.MediaUploads.WithLabelValues(string(kind), "stored").Inc()
	return url, true
}

func extensionFor(h uploadHeader, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(h.Filename)); ext != "" && len(ext) <= 6 {
		return ext
	}
	return extensionFromType(contentType)
}

func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	case "video/x-msvideo", "video/avi":
		return ".avi"
	default:
		return ""
	}
}
