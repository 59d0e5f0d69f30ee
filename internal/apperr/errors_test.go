package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundWrapsSentinel(t *testing.T) {
	err := NotFound("trek section", "abc")
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("outer: %w", err)))
	assert.Equal(t, "trek section abc: not found", err.Error())
}

func TestValidationError_OrNil(t *testing.T) {
	v := &ValidationError{}
	assert.NoError(t, v.OrNil())

	v.Add("title", "is required")
	v.Add("overlayColor", "must be a hex colour, got %q", "red")
	err := v.OrNil()
	assert.Error(t, err)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 2)
	assert.Contains(t, err.Error(), "title: is required")
}

func TestUpstreamError(t *testing.T) {
	cause := errors.New("boom")
	err := &UpstreamError{Service: "s3", Code: "AccessDenied", Message: "Access Denied", Err: cause}
	assert.Equal(t, "s3 error AccessDenied: Access Denied", err.Error())
	assert.ErrorIs(t, err, cause)

	noCode := &UpstreamError{Service: "places", Err: cause}
	assert.Equal(t, "places error: boom", noCode.Error())
}

func TestConfigError(t *testing.T) {
	err := error(&ConfigError{Key: "GOOGLE_PLACES_API_KEY"})
	var ce *ConfigError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "missing configuration: GOOGLE_PLACES_API_KEY", err.Error())
}
