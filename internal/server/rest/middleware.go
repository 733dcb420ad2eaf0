package rest

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxKeyRequestID = "request_id"
	ctxKeyUserID    = "user_id"
)

// Authenticator resolves the subject of a request from its cookies.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken, refreshToken string) (*services.Identity, error)
}

// requestID propagates X-Request-ID or generates one, echoing it back.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

// accessLog writes one line per request.
func accessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(ctxKeyRequestID),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.Last().Error())
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error(c.Request.Context(), "request", args...)
		case c.Writer.Status() >= 400:
			logger.Warn(c.Request.Context(), "request", args...)
		default:
			logger.Info(c.Request.Context(), "request", args...)
		}
	}
}

// authenticate rejects requests without a valid session and stores the
// subject id. A renewed access token is written back as a cookie.
func authenticate(a Authenticator, cookies *CookieManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, refresh := tokens(c)

		id, err := a.Authenticate(c.Request.Context(), access, refresh)
		if err != nil {
			fail(c, err)
			return
		}
		if id.NewAccessToken != "" {
			cookies.SetAccess(c, id.NewAccessToken)
		}

		c.Set(ctxKeyUserID, id.UserID)
		c.Next()
	}
}
