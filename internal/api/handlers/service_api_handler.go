package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/tasks"
)

// INotificationEmitter is implemented by *tasks.NotificationProducer.
type INotificationEmitter interface {
	Emit(ctx context.Context, payload tasks.NotificationPayload) error
}

// JsonApiRequest is the body of a service API call.
type JsonApiRequest struct {
	Method    string          `json:"method"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// JsonApiResponse is the reply to a service API call.
type JsonApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ApiError struct {
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(message string) *ApiError {
	return &ApiError{Message: message}
}

type apiMethodFunc func(c *gin.Context, args json.RawMessage) (interface{}, *ApiError)

// ServiceApiHandler answers method calls on the internal service port.
type ServiceApiHandler struct {
	emitter      INotificationEmitter
	shutdownChan chan<- struct{}
	log          logr.Logger
	methods      map[string]apiMethodFunc
}

// NewServiceApiHandler creates a new ServiceApiHandler. emitter may be nil when no
// task queue is configured.
func NewServiceApiHandler(emitter INotificationEmitter, shutdownChan chan<- struct{}, log logr.Logger) *ServiceApiHandler {
	h := &ServiceApiHandler{emitter: emitter, shutdownChan: shutdownChan, log: log}
	h.methods = map[string]apiMethodFunc{
		"ping":             h.ping,
		"shutdown":         h.shutdown,
		"emitNotification": h.emitNotification,
	}
	return h
}

// HandleRequest is the entry point for POST /api on the service port.
func (h *ServiceApiHandler) HandleRequest(c *gin.Context) {
	var req JsonApiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, JsonApiResponse{Success: false, Error: "Invalid request format"})
		return
	}

	method, ok := h.methods[req.Method]
	if !ok {
		c.JSON(http.StatusNotFound, JsonApiResponse{Success: false, Error: fmt.Sprintf("Unknown service method: %s", req.Method)})
		return
	}
	result, apiErr := method(c, req.Arguments)
	if apiErr != nil {
		c.JSON(http.StatusBadRequest, JsonApiResponse{Success: false, Error: apiErr.Message})
		return
	}
	c.JSON(http.StatusOK, JsonApiResponse{Success: true, Data: result})
}

func (h *ServiceApiHandler) ping(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	return "pong", nil
}

func (h *ServiceApiHandler) shutdown(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	h.log.Info("shutdown requested via service API")
	select {
	case h.shutdownChan <- struct{}{}:
	default:
		h.log.Info("shutdown already signaled")
	}
	return "Shutdown initiated", nil
}

// emitNotification expects arguments [{"type":..,"title":..,"message":..,"data":{..},"priority":..}].
func (h *ServiceApiHandler) emitNotification(c *gin.Context, args json.RawMessage) (interface{}, *ApiError) {
	if h.emitter == nil {
		return nil, NewApiError("Notification queue is not configured")
	}
	var payload tasks.NotificationPayload
	if apiErr := parseRequiredSingleArgFromArray(args, &payload); apiErr != nil {
		return nil, apiErr
	}
	if err := h.emitter.Emit(c.Request.Context(), payload); err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			return nil, NewApiError(ve.Error())
		}
		h.log.Error(err, "failed to emit notification", "type", payload.Type)
		return nil, NewApiError("Failed to enqueue notification")
	}
	return "queued", nil
}

func parseRequiredSingleArgFromArray(rawArgPayload json.RawMessage, targetVarPtr interface{}) *ApiError {
	if rawArgPayload == nil {
		return NewApiError("Missing 'arguments' field; expected a JSON array with one argument.")
	}
	var argArray []json.RawMessage
	if err := json.Unmarshal(rawArgPayload, &argArray); err != nil {
		return NewApiError("Invalid 'arguments': expected a JSON array.")
	}
	if len(argArray) == 0 {
		return NewApiError("Invalid 'arguments': array is empty, but one argument is expected.")
	}
	if err := json.Unmarshal(argArray[0], targetVarPtr); err != nil {
		return NewApiError("Invalid format for argument: the first element in 'arguments' array has unexpected structure.")
	}
	return nil
}
