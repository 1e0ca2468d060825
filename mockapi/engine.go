// Package mockapi assembles the development backend: a gin engine over gorm
// serving every endpoint the client calls.
package mockapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sam414141/Digital-MenuCard-sub001/handlers"
	"github.com/Sam414141/Digital-MenuCard-sub001/live"
	"github.com/Sam414141/Digital-MenuCard-sub001/routes"
)

type Options struct {
	Secret   []byte
	TokenTTL time.Duration
	Events   live.Publisher
	Seed     bool
}

// NewEngine migrates db, optionally seeds it and returns the ready router
func NewEngine(db *gorm.DB, opts Options) (*gin.Engine, *handlers.Handler, error) {
	if err := handlers.Migrate(db); err != nil {
		return nil, nil, err
	}
	if opts.Seed {
		if err := Seed(db); err != nil {
			return nil, nil, err
		}
	}
	h := handlers.New(db, opts.Secret, opts.TokenTTL, opts.Events)

	r := gin.New()
	r.Use(gin.Recovery(), cors())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Digital Menu Card API",
			"version": "1.0.0",
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Digital Menu Card development API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "waiter", "kitchen_staff", "admin"},
		})
	})

	routes.SetupRoutes(r, h)
	return r, h, nil
}

// cors lets a browser frontend on another origin call the API
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
