package auth

import (
	"net/http"
	"strings"

	"fitcenter/internal/api"

	"github.com/gin-gonic/gin"
)

const (
	MsgLoginRequired      = "You must be logged in to perform this action."
	MsgInstructorRequired = "You must be an instructor to perform this action."
)

const (
	ctxMemberID   = "member_id"
	ctxUsername   = "username"
	ctxInstructor = "instructor"
)

// Identity is the acting member as attached to the request context.
type Identity struct {
	MemberID   int
	Username   string
	Instructor bool
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, api.LoginRequired{
		Errors:     []string{MsgLoginRequired},
		RedirectTo: c.Request.URL.Path,
	})
	c.Abort()
}

// Middleware requires a valid bearer token and stashes the identity on the
// context. Unauthenticated responses carry the requested path so the client
// can return there after login.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			unauthorized(c)
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			unauthorized(c)
			return
		}

		claims, err := ValidateToken(tokenString, secret)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(ctxMemberID, claims.MemberID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxInstructor, claims.Instructor)

		c.Next()
	}
}

// RequireInstructor rejects members without the instructor role. It assumes
// Middleware already ran.
func RequireInstructor() gin.HandlerFunc {
	return func(c *gin.Context) {
		instructor, exists := c.Get(ctxInstructor)
		if !exists {
			unauthorized(c)
			return
		}

		isInstructor, ok := instructor.(bool)
		if !ok || !isInstructor {
			c.JSON(http.StatusForbidden, api.Error(MsgInstructorRequired))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetIdentity returns the acting member, or false when no identity was
// attached to the request.
func GetIdentity(c *gin.Context) (Identity, bool) {
	memberID, exists := c.Get(ctxMemberID)
	if !exists {
		return Identity{}, false
	}

	id, ok := memberID.(int)
	if !ok {
		return Identity{}, false
	}

	username := c.GetString(ctxUsername)
	instructor := c.GetBool(ctxInstructor)

	return Identity{MemberID: id, Username: username, Instructor: instructor}, true
}
