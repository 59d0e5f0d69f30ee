package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/umorjyoti/trip-sub006/internal/config"
)

// DefaultFolder is used when an upload names no folder.
const DefaultFolder = "uploads"

// IObjectStorage stores public files and maps between keys and their public URLs.
type IObjectStorage interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	// PublicURL is the address the object is served from.
	PublicURL(key string) string
	// KeyFromURL accepts a public URL or a bare key and returns the object key.
	KeyFromURL(urlOrKey string) string
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces name to a safe last path segment.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeNameChars.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		return "file"
	}
	return name
}

// SanitizeFolder keeps the safe segments of folder, or returns DefaultFolder.
func SanitizeFolder(folder string) string {
	var segs []string
	for _, seg := range strings.Split(folder, "/") {
		seg = strings.Trim(unsafeNameChars.ReplaceAllString(seg, "-"), "-.")
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	if len(segs) == 0 {
		return DefaultFolder
	}
	return strings.Join(segs, "/")
}

// BuildKey returns "<folder>/<unix millis>-<filename>".
func BuildKey(folder, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", SanitizeFolder(folder), now.UnixMilli(), SanitizeFilename(filename))
}

// normalizeKey strips the public base, any scheme and host, leading slashes and a
// leading bucket segment, and URL-decodes what remains.
func normalizeKey(urlOrKey, publicBase, bucket string) string {
	s := strings.TrimSpace(urlOrKey)
	if publicBase != "" && strings.HasPrefix(s, publicBase) {
		s = strings.TrimPrefix(s, publicBase)
	} else if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" {
		s = u.EscapedPath()
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	s = strings.TrimLeft(s, "/")
	if bucket != "" {
		s = strings.TrimPrefix(s, bucket+"/")
	}
	return s
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// New picks the backend named by cfg.StorageDriver.
func New(cfg *config.Config) (IObjectStorage, error) {
	switch cfg.StorageDriver {
	case "minio":
		return NewMinIOStorage(cfg)
	case "s3", "":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
