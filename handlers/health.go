package handlers

import (
	"net/http"

	"barberbook/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last dependency check.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "message": "Hi, I'm barberbook"})
}
