package services

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/cache"
	"github.com/umorjyoti/trip-sub006/internal/config"
	"github.com/umorjyoti/trip-sub006/internal/imaging"
	"github.com/umorjyoti/trip-sub006/internal/models"
	"github.com/umorjyoti/trip-sub006/internal/storage"
)

// AllowedUploadTypes are the content types accepted by Upload.
var AllowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"image/avif":      true,
	"application/pdf": true,
}

// UploadFile is one file received from a client.
type UploadFile struct {
	Filename    string
	ContentType string
	Folder      string
	Data        []byte
	// Size is the size the client declared. Data may be cut short past the limit.
	Size int64
}

// IUploadService puts files into object storage and removes them again.
type IUploadService interface {
	Upload(ctx context.Context, file UploadFile) (*models.UploadedObject, error)
	// Delete removes the object named by a public URL or key, then clears references
	// to it from treks. The two steps are not atomic: if the scrub fails the object is
	// already gone and the error says so.
	Delete(ctx context.Context, urlOrKey string) (*models.DeletionReport, error)
}

type uploadService struct {
	store        storage.IObjectStorage
	treks        ITrekService
	cache        cache.ICache
	maxBytes     int64
	maxDimension int
	now          func() time.Time
	log          logr.Logger
}

// NewUploadService creates a new UploadService. c holds the public section reads
// that embed trek images; it is invalidated after a scrub.
func NewUploadService(store storage.IObjectStorage, treks ITrekService, c cache.ICache, cfg *config.Config, log logr.Logger) IUploadService {
	if c == nil {
		c = cache.Noop{}
	}
	return &uploadService{
		store:        store,
		treks:        treks,
		cache:        c,
		maxBytes:     int64(cfg.UploadMaxSizeMB) * 1024 * 1024,
		maxDimension: cfg.ImageMaxDimension,
		now:          time.Now,
		log:          log,
	}
}

// normalizeContentType lower-cases the media type and drops parameters.
func normalizeContentType(ct string) string {
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func (s *uploadService) Upload(ctx context.Context, file UploadFile) (*models.UploadedObject, error) {
	contentType := normalizeContentType(file.ContentType)
	if !AllowedUploadTypes[contentType] {
		return nil, apperr.Invalid("image", "file type %q is not allowed", file.ContentType)
	}
	if len(file.Data) == 0 {
		return nil, apperr.Invalid("image", "file is empty")
	}
	if size := max(file.Size, int64(len(file.Data))); s.maxBytes > 0 && size > s.maxBytes {
		if file.Size > s.maxBytes {
			return nil, apperr.Invalid("image", "file is %s, the limit is %s",
				humanize.IBytes(uint64(file.Size)), humanize.IBytes(uint64(s.maxBytes)))
		}
		return nil, apperr.Invalid("image", "file exceeds the limit of %s", humanize.IBytes(uint64(s.maxBytes)))
	}

	data, resized, err := imaging.Downscale(file.Data, contentType, s.maxDimension)
	if err != nil {
		return nil, apperr.Invalid("image", "%v", err)
	}

	key := storage.BuildKey(file.Folder, file.Filename, s.now())
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		return nil, err
	}
	s.log.Info("file uploaded", "key", key, "size", humanize.IBytes(uint64(len(data))), "resized", resized)

	return &models.UploadedObject{
		URL:         s.store.PublicURL(key),
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

func (s *uploadService) Delete(ctx context.Context, urlOrKey string) (*models.DeletionReport, error) {
	key := s.store.KeyFromURL(urlOrKey)
	if key == "" {
		return nil, apperr.Invalid("key", "an object key or URL is required")
	}
	publicURL := s.store.PublicURL(key)

	if err := s.store.Delete(ctx, key); err != nil {
		return nil, err
	}
	report := &models.DeletionReport{Key: key, URL: publicURL}

	// Treks store whatever URL the admin saved; match the canonical one and the raw input.
	urls := []string{publicURL}
	if raw := strings.TrimSpace(urlOrKey); raw != publicURL && strings.Contains(raw, "://") {
		urls = append(urls, raw)
	}
	res, err := s.treks.ScrubImage(ctx, urls)
	report.ImagesPulled = res.ImagesPulled
	report.ImageURLsReset = res.ImageURLsReset
	// populated sections embed trek images; a failed scrub may still have changed some
	if err != nil || res.ImagesPulled > 0 || res.ImageURLsReset > 0 {
		invalidate(ctx, s.cache, s.log, cache.KeyActiveSections)
	}
	if err != nil {
		s.log.Error(err, "object deleted but trek references remain", "key", key)
		return report, fmt.Errorf("object %s deleted, trek cleanup failed: %w", key, err)
	}
	s.log.Info("file deleted", "key", key, "imagesPulled", res.ImagesPulled, "imageUrlsReset", res.ImageURLsReset)
	return report, nil
}
