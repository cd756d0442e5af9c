package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"storefront/database"
	"storefront/utils"
)

var jwtSecret []byte

// Init sets the signing secret; must run before any routes are served.
func Init(secret string) {
	jwtSecret = []byte(secret)
}

func Secret() []byte { return jwtSecret }

// tokenFrom prefers the token cookie, falling back to a bearer header.
func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	return ""
}

func blacklisted(tokenString string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc bson.M
	err := database.BlacklistCollection.FindOne(ctx, bson.M{"token": tokenString}).Decode(&doc)
	return err == nil
}

// RequireAuth rejects requests without a valid, non-blacklisted token.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFrom(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		if blacklisted(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "token has been revoked"})
			return
		}

		claims, err := utils.ParseToken(jwtSecret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// OptionalAuth sets identity when a valid token is present but lets
// anonymous requests through. Cart and checkout run under this.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFrom(c)
		if tokenString == "" || blacklisted(tokenString) {
			c.Next()
			return
		}
		if claims, err := utils.ParseToken(jwtSecret, tokenString); err == nil {
			c.Set("userId", claims.UserID)
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin only"})
			return
		}
		c.Next()
	}
}
