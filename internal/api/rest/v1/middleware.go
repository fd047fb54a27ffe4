package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// currentUserKey is the gin context key of the authenticated user
const currentUserKey = "currentUser"

// AuthRequired rejects requests without a valid bearer token and stores the user in the context
func AuthRequired(authService auth.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := bearerToken(ctx.GetHeader("Authorization"))
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: "Token is missing"})
			return
		}

		user, err := authService.Authenticate(ctx, token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Success: false, Message: auth.ErrUnauthorized.Error()})
			return
		}

		ctx.Set(currentUserKey, user)
		ctx.Next()
	}
}

// AdminRequired rejects authenticated users without the admin flag. It must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := currentUser(ctx)
		if !ok || !user.IsAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Success: false, Message: "Admin access required"})
			return
		}
		ctx.Next()
	}
}

// BodyLimit caps request bodies at maxBytes. Declared lengths are refused up front;
// streamed bodies fail on read past the limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > maxBytes {
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{Success: false, Message: msgBodyTooLarge})
			return
		}
		if ctx.Request.Body != nil {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
		}
		ctx.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		line := []interface{}{ctx.Request.Method, " ", ctx.Request.URL.Path, " ", status, " ", time.Since(start)}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error(line...)
		case status >= http.StatusBadRequest:
			log.Warn(line...)
		default:
			log.Debug(line...)
		}
	}
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentUser(ctx *gin.Context) (*users.User, bool) {
	value, ok := ctx.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*users.User)
	return user, ok
}
