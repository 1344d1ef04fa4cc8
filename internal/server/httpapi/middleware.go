package httpapi

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/keeper/internal/apperr"
	"github.com/dmitrijs2005/keeper/internal/common"
)

const (
	requestIDKey = "request_id"
	accountIDKey = "account_id"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			requestIDKey, c.GetString(requestIDKey),
		)
	}
}

// recovery is an exit edge: a panic becomes InternalError, rendered once.
func (s *HTTPServer) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				s.fail(c, apperr.Internal(fmt.Sprintf("panic: %v\n%s", rec, debug.Stack())))
			}
		}()
		c.Next()
	}
}

func (s *HTTPServer) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			s.fail(c, apperr.ErrUnauthenticated)
			return
		}

		id, err := s.accounts.Authenticate(strings.TrimSpace(token))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Set(accountIDKey, id)
		c.Next()
	}
}

// fail is the only way a handler reports an error.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	r := s.renderer.With(requestIDKey, c.GetString(requestIDKey))
	status, env := r.Render(c.Request.Context(), err)
	c.AbortWithStatusJSON(status, env)
}
