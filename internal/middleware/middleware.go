package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "session"

	PrincipalKey = "principal"
	UserKey      = "user"
	RequestIDKey = "request_id"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get(RequestIDKey)

		attrs := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if p := Principal(c); p.Authenticated() {
			attrs = append(attrs, "user_id", p.UserID)
		}
		logger.Info("HTTP Request", attrs...)
	}
}

// ErrorHandler logs errors attached with c.Error and answers 500 when the
// handler has not written a response itself.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID, _ := c.Get(RequestIDKey)

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":    false,
				"error":      "Internal server error",
				"request_id": requestID,
			})
		}
	}
}

// Session resolves the session cookie into a principal. A missing or bad
// cookie leaves the request anonymous; it never rejects.
func Session(auth *services.AuthService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(PrincipalKey, models.Anonymous())

		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("session rejected", "error", err)
			c.Next()
			return
		}
		c.Set(PrincipalKey, models.PrincipalFor(user))
		c.Set(UserKey, user)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Principal(c).Authenticated() {
			requestID, _ := c.Get(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ApiResponse{
				Error:     "authentication required",
				RequestID: stringOf(requestID),
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin hides admin routes from everyone else behind a 404.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Principal(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse("not found"))
			return
		}
		c.Next()
	}
}

// Principal returns the request's principal, anonymous when none was set.
func Principal(c *gin.Context) models.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(models.Principal); ok {
			return p
		}
	}
	return models.Anonymous()
}

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func stringOf(v any) string {
	s, _ := v.(string)
	return s
}
