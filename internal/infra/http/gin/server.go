// Package ginserver wires the REST surface: public catalog reads,
// host-owned listing management and guest booking lifecycle.
package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/obs"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	CurrentUser(c *gin.Context)
}

type ListingHTTP interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	MyListings(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	MyBookings(c *gin.Context)
	Get(c *gin.Context)
	Cancel(c *gin.Context)
}

type Handlers struct {
	Auth           AuthHTTP
	Listing        ListingHTTP
	Booking        BookingHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/current-user", h.Auth.CurrentUser)

	listings := api.Group("/listings")
	listings.GET("", h.Listing.List)
	listings.POST("", h.Listing.Create)
	listings.GET("/my-listings", h.Listing.MyListings)
	listings.GET("/:id", h.Listing.Get)
	listings.PUT("/:id", h.Listing.Update)
	listings.DELETE("/:id", h.Listing.Delete)
	listings.POST("/:id/images", h.Listing.UploadPhoto)

	bookings := api.Group("/bookings")
	bookings.POST("", h.Booking.Create)
	bookings.GET("/my-bookings", h.Booking.MyBookings)
	bookings.GET("/:id", h.Booking.Get)
	bookings.PUT("/:id/cancel", h.Booking.Cancel)

	return router
}

func NewServer(cfg config.Config, router *gin.Engine) *http.Server {
	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
