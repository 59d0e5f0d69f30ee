package models

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true, ".avif": true,
}

// IsImageURL reports whether s is an absolute http(s) URL whose path names an
// image file. Query and fragment are ignored.
func IsImageURL(s string) bool {
	if !govalidator.IsURL(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (!strings.EqualFold(u.Scheme, "http") && !strings.EqualFold(u.Scheme, "https")) {
		return false
	}
	return imageExtensions[strings.ToLower(path.Ext(u.Path))]
}

// IsHexColor accepts "#rgb" and "#rrggbb".
func IsHexColor(s string) bool {
	return strings.HasPrefix(s, "#") && govalidator.IsHexcolor(s)
}

func checkMaxLen(v *apperr.ValidationError, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, "must be at most %d characters", max)
	}
}

func checkOptionalImage(v *apperr.ValidationError, field, value string) {
	if value != "" && !IsImageURL(value) {
		v.Add(field, "must be an http(s) image URL")
	}
}
