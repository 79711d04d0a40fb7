package transport

import (
	"time"

	"github.com/ds124wfegd/bgremove/internal/transport/middleware"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func InitRoutes(imgHandler *ImageHandler, requestTimeout time.Duration) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logrus.StandardLogger()), middleware.Timeout(requestTimeout))

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/upload", imgHandler.UploadImage)
	router.GET("/presets", imgHandler.ListPresets)

	image := router.Group("/image/:id")
	{
		image.GET("", imgHandler.GetImage)
		image.DELETE("", imgHandler.DeleteImage)
		image.GET("/history", imgHandler.GetHistory)
		image.GET("/file/:variant", imgHandler.GetImageFile)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "bgremove",
		})
	})
	return router
}
