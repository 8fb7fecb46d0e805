package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

const (
	maxNameHintLen  = 64
	defaultNameHint = "image"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Assets stores product images in a flat storage namespace and hands out
// references of the form <prefix>/<key>.
type Assets struct {
	storage model.Storage
	prefix  string
	maxSize int64
	logger  *logger.Logger
	now     func() time.Time
}

func NewAssets(storage model.Storage, urlPrefix string, maxSize int64, logger *logger.Logger) *Assets {
	return &Assets{
		storage: storage,
		prefix:  strings.TrimSuffix(urlPrefix, "/"),
		maxSize: maxSize,
		logger:  logger,
		now:     time.Now,
	}
}

// Store validates the image and writes it under a fresh key derived from
// nameHint. It returns the reference to persist on the product.
func (a *Assets) Store(ctx context.Context, nameHint string, data io.Reader, ext string) (string, error) {
	ext = strings.ToLower(ext)
	if !allowedImageExtensions[ext] {
		return "", model.NewValidationErrorf("Unsupported image type %q", ext)
	}

	body, err := io.ReadAll(io.LimitReader(data, a.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(body) == 0 {
		return "", model.NewValidationError("Image file is empty")
	}
	if int64(len(body)) > a.maxSize {
		return "", model.NewValidationErrorf("Image exceeds the maximum size of %d bytes", a.maxSize)
	}

	detected := mimetype.Detect(body)
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", model.NewValidationError("Uploaded file is not an image")
	}

	key, err := a.freeKey(ctx, sanitizeNameHint(nameHint), ext)
	if err != nil {
		return "", err
	}

	if err := a.storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), detected.String()); err != nil {
		return "", fmt.Errorf("failed to upload to storage: %w", err)
	}

	a.logger.Debug("Assets service: stored image",
		"key", key,
		"content_type", detected.String(),
		"size", len(body))

	return a.prefix + "/" + key, nil
}

// Replace stores a new image and passes its reference to commit. If commit
// fails the new image is discarded, otherwise the one at oldRef is.
func (a *Assets) Replace(ctx context.Context, oldRef, nameHint string, data io.Reader, ext string, commit func(ref string) error) error {
	ref, err := a.Store(ctx, nameHint, data, ext)
	if err != nil {
		return fmt.Errorf("failed to store image: %w", err)
	}

	if err := commit(ref); err != nil {
		a.discard(ctx, ref)
		return err
	}

	if oldRef != "" && oldRef != ref {
		a.discard(ctx, oldRef)
	}
	return nil
}

// Delete removes the asset behind ref. Missing assets and references outside
// the managed prefix are not errors.
func (a *Assets) Delete(ctx context.Context, ref string) error {
	key, ok := a.keyFromRef(ref)
	if !ok {
		a.logger.Debug("Assets service: ignoring unmanaged reference", "ref", ref)
		return nil
	}

	err := a.storage.Delete(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Warn("Assets service: image already gone", "key", key)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to delete from storage: %w", err)
	}
	return nil
}

// Open returns the stored file called name together with its content type.
func (a *Assets) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if !validAssetName(name) {
		return nil, "", model.NewNotFoundError("File")
	}

	rc, err := a.storage.Download(ctx, name)
	if errors.Is(err, model.ErrNotFound) {
		return nil, "", model.NewNotFoundError("File")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to download from storage: %w", err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}

// discard is Delete for callers that cannot act on a failure.
func (a *Assets) discard(ctx context.Context, ref string) {
	if err := a.Delete(ctx, ref); err != nil {
		a.logger.Error("Assets service: failed to delete image",
			"ref", ref,
			"error", err.Error())
	}
}

func (a *Assets) freeKey(ctx context.Context, hint, ext string) (string, error) {
	stamp := a.now().UnixNano()
	for range 8 {
		key := hint + "_" + strconv.FormatInt(stamp, 10) + ext
		exists, err := a.storage.Exists(ctx, key)
		if err != nil {
			return "", fmt.Errorf("failed to check storage key: %w", err)
		}
		if !exists {
			return key, nil
		}
		stamp++
	}
	return "", fmt.Errorf("failed to find a free storage key for %q", hint)
}

func (a *Assets) keyFromRef(ref string) (string, bool) {
	key, ok := strings.CutPrefix(ref, a.prefix+"/")
	if !ok || !validAssetName(key) {
		return "", false
	}
	return key, true
}

func validAssetName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.Contains(name, "..") && !strings.ContainsAny(name, "/\\\x00")
}

// sanitizeNameHint reduces a free-form product name to [A-Za-z0-9_-].
func sanitizeNameHint(hint string) string {
	var b strings.Builder
	for _, r := range hint {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r == '_' || r == '-',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9':
			b.WriteRune(r)
		}
		if b.Len() >= maxNameHintLen {
			break
		}
	}

	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return defaultNameHint
	}
	return out
}
