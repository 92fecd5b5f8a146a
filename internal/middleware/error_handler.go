package middleware

import (
	"errors"
	"net/http"
	"time"

	"farmacierre/internal/apierror"
	"farmacierre/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const msgInterno = "Error interno del servidor"

// ErrorHandler turns the last error a handler attached with c.Error into the
// response. Service errors keep their message; anything else is logged and
// answered with a generic 500 so internals never reach the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, msg := Status(err)
		if status == http.StatusInternalServerError {
			log.Error().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Err(err).
				Msg("unhandled error")
		}
		c.AbortWithStatusJSON(status, apierror.New(msg))
	}
}

// Status maps an error to its HTTP status and client-safe message.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidacion):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrConflicto):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrNoEncontrado):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, msgInterno
	}
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(msgInterno))
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and request_id.
// 5xx responses log at error level, 4xx at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
