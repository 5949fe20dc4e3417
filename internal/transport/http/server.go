package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pulsechat/internal/bootstrap"
	"pulsechat/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// The browser frontend is served from a different origin and polls
	// without credentials.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	healthHandler := handler.NewHealthHandler(app)
	messageHandler := handler.NewMessageHandler(app.ChatService)
	userHandler := handler.NewUserHandler(app.ChatService)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "Hello from backend")
	})
	router.GET("/healthz", healthHandler.Check)

	router.GET("/messages", messageHandler.List)
	router.POST("/messages", messageHandler.Post)
	router.GET("/users", userHandler.List)
	router.POST("/users", userHandler.Register)

	return router
}
