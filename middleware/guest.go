package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/utils"
)

// GuestIdentity reads the guestId cookie into the request context.
// The cookie is only minted lazily, by the first cart write (see MintGuest).
func GuestIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(utils.GuestCookie); err == nil && id != "" {
			c.Set("guestId", id)
		}
		c.Next()
	}
}

// MintGuest returns the request's guest id, creating one (and the cookie)
// when the caller is anonymous and has none yet.
func MintGuest(c *gin.Context) string {
	if id := c.GetString("guestId"); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Set("guestId", id)
	utils.SetGuestCookie(c, id)
	return id
}
