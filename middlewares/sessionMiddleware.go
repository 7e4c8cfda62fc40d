package middlewares

import (
	"context"
	"net/http"

	"github.com/campusworks/assets_backend/config"
	"github.com/campusworks/assets_backend/models"
	"github.com/campusworks/assets_backend/utils"
	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the opaque session token issued at login.
// Token: keys in Redis back revocation; a logged-out token stops working
// immediately even though the JWT itself is still within its lifespan.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.Next()
			return
		}
		username, exists, err := config.GetRedisValue("Token:" + token)
		if err != nil || !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyToken, token)
		ctx = context.WithValue(ctx, utils.ContextKeyUsername, username)

		// role & identity from the User: cache, falling back to the DB
		user := models.User{}
		cached, err := config.GetRedisObject("User:"+username, &user)
		if err == nil && !cached {
			if fetched, ferr := models.GetUserByUsername(ctx, username); ferr == nil {
				user = *fetched
				_ = config.SetRedisObject("User:"+username, user, 0)
			}
		}
		if user.ID != 0 {
			ctx = utils.SetUserIdInContext(ctx, user.ID)
			ctx = utils.SetUserNameInContext(ctx, user.Name)
			ctx = utils.SetUserRoleInContext(ctx, string(user.Role))
			ctx = utils.SetIsAdminInContext(ctx, user.Role == models.UserRoleAdmin)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
