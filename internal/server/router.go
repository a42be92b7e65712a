package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(requestID(), s.accessLog(), gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", requestIDHeader},
	}
	if len(s.origins) == 1 && s.origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.origins
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.POST("/create", s.create)
		api.POST("/verify", s.verifyCreator)
		api.GET("/route/*path", s.resolveRoute)
		api.GET("/archive/:shortname", s.archive)
	}

	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "Method %s Not Allowed", c.Request.Method)
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
	})
	return r
}
