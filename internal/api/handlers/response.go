package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/umorjyoti/trip-sub006/internal/api/middleware"
	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/places"
)

// Error codes carried in the "code" field of error bodies.
const (
	CodeValidation = "validation_error"
	CodeNotFound   = "not_found"
	CodeUpstream   = "upstream_error"
	CodeConfig     = "config_error"
	CodeInternal   = "internal_error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Fields  []apperr.FieldError `json:"fields,omitempty"`
	TraceID string              `json:"traceId,omitempty"`
}

// DataResponse is the body of a successful request.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, DataResponse{Success: true, Data: data})
}

// respondError maps err onto a status and error body. Internal details of
// unclassified errors stay in the log.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	body := ErrorResponse{TraceID: middleware.TraceID(c)}
	status := http.StatusInternalServerError

	var (
		ve *apperr.ValidationError
		ue *apperr.UpstreamError
		ce *apperr.ConfigError
	)
	switch {
	case errors.As(err, &ve):
		status, body.Code, body.Error, body.Fields = http.StatusBadRequest, CodeValidation, ve.Error(), ve.Fields
	case apperr.IsNotFound(err), errors.Is(err, places.ErrNoPlaceFound):
		status, body.Code, body.Error = http.StatusNotFound, CodeNotFound, err.Error()
	case errors.As(err, &ue):
		status, body.Code, body.Error = http.StatusBadGateway, CodeUpstream, ue.Error()
	case errors.As(err, &ce):
		body.Code, body.Error = CodeConfig, ce.Error()
	default:
		body.Code, body.Error = CodeInternal, "Internal server error"
	}
	c.JSON(status, body)
}

func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		respondError(c, apperr.Invalid(param, "%q is not a valid id", c.Param(param)))
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindJSON decodes the request body into dst, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperr.Invalid("body", "invalid JSON: %v", err))
		return false
	}
	return true
}
