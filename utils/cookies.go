package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	TokenCookie = "token"
	GuestCookie = "guestId"
)

func SetTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(TokenCookie, token, maxAge, "/", "", false, true)
}

func ClearTokenCookie(c *gin.Context) {
	c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
}

func SetGuestCookie(c *gin.Context, guestID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	// 30 days, readable by the SPA
	c.SetCookie(GuestCookie, guestID, 30*24*3600, "/", "", false, false)
}

func ClearGuestCookie(c *gin.Context) {
	c.SetCookie(GuestCookie, "", -1, "/", "", false, false)
}
