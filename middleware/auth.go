package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"adventure-backend/models"
	"adventure-backend/services"
	"adventure-backend/utils"
)

const userContextKey = "user"

// Authorized validates the bearer token, loads the user behind it and stores
// the user in the request context. Only ACCESS tokens pass.
func Authorized(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			utils.JSONError(c, http.StatusUnauthorized, utils.MsgInvalidJWTType)
			c.Abort()
			return
		}

		claims, err := services.ParseJWT(token)
		if err != nil || claims.Type != services.GrantTypeAccess {
			utils.JSONError(c, http.StatusUnauthorized, utils.MsgInvalidJWTType)
			c.Abort()
			return
		}

		user, err := users.GetUserByID(claims.UserID)
		if err != nil || !user.IsActive {
			utils.JSONError(c, http.StatusUnauthorized, utils.MsgUserForJWTNotFound)
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuthorized is Authorized without the rejection: a valid ACCESS
// token attaches the user, anything else passes through anonymously.
func OptionalAuthorized(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if ok && token != "" {
			if claims, err := services.ParseJWT(token); err == nil && claims.Type == services.GrantTypeAccess {
				if user, err := users.GetUserByID(claims.UserID); err == nil && user.IsActive {
					c.Set(userContextKey, user)
				}
			}
		}
		c.Next()
	}
}

// RequireRole rejects users that hold none of the given roles. Must run after
// Authorized.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.HasRole(roles...) {
			utils.JSONError(c, http.StatusForbidden, utils.MsgForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside Authorized.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
