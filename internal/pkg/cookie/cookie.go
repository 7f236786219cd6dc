package cookie

import (
	"github.com/gin-gonic/gin"
)

// Set by the platform's auth service on the shared parent domain.
const AccessTokenCookieName = "access_token"

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}
