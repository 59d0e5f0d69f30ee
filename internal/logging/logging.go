package logging

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

// New builds the root logger. level is a zerolog level name ("debug", "info", ...);
// pretty switches to the human readable console writer.
func New(level string, pretty bool) logr.Logger {
	return NewWithWriter(os.Stdout, level, pretty)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, pretty bool) logr.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	// logr V(1) maps to zerolog debug
	zerologr.SetMaxV(1)

	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return zerologr.New(&zl)
}

// userIDKey is the gin context key set by the auth middleware.
const userIDKey = "userID"

// GinLogger logs one line per request through log. Authenticated writes are logged at
// info level so admin changes leave a trail; everything else is debug.
func GinLogger(log logr.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"clientIP", c.ClientIP(),
		}
		userID := c.GetString(userIDKey)
		if userID != "" {
			kv = append(kv, "userID", userID)
		}
		if len(c.Errors) > 0 {
			log.Error(c.Errors.Last().Err, "request failed", kv...)
			return
		}
		if userID != "" && c.Request.Method != http.MethodGet {
			log.Info("admin request", kv...)
			return
		}
		log.V(1).Info("request", kv...)
	}
}
