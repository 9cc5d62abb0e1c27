package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the site front end plus local development origins.
func CORS(siteDomain string) gin.HandlerFunc {
	origins := []string{"http://localhost:5173", "http://localhost:3000"}
	if siteDomain != "" && siteDomain != origins[0] && siteDomain != origins[1] {
		origins = append(origins, siteDomain)
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
