package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// AnonymousDevice is the device ID of callers without an X-Device-ID header.
const AnonymousDevice = "anonymous"

// DeviceMiddleware stores the caller's device ID in the context. Clients without
// an X-Device-ID header share the anonymous device.
func DeviceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.GetHeader("X-Device-ID"))
		if deviceID == "" {
			deviceID = AnonymousDevice
		}
		c.Set("deviceID", deviceID)
		c.Next()
	}
}
