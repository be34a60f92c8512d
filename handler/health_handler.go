package handler

import (
	"main/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process health plus coarse system and database
// connection metrics for operators.
func HealthHandler(c *gin.Context) {
	mongoMetrics := utils.GetMongoMetrics()
	utils.Success(c, gin.H{
		"status":    "ok",
		"cpu_usage": utils.GetCPUUsage(),
		"database": gin.H{
			"active_connections": mongoMetrics.ActiveConnections,
		},
	})
}
