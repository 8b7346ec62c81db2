package routes

import (
	"github.com/Vishall333/Smartlottery/internal/config"
	"github.com/Vishall333/Smartlottery/internal/handlers"
	"github.com/Vishall333/Smartlottery/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies collects the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler    *handlers.AuthHandler
	UserHandler    *handlers.UserHandler
	ContestHandler *handlers.ContestHandler
	PaymentHandler *handlers.PaymentHandler
	HealthHandler  *handlers.HealthHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", deps.HealthHandler.Health)
		api.GET("/contests", deps.ContestHandler.ListContests)

		api.POST("/users", deps.UserHandler.CreateUser)
		api.GET("/user/:uid", deps.UserHandler.GetUser)
		api.POST("/join-contest", deps.UserHandler.JoinContest)

		payments := api.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.InitiatePayment)
			payments.GET("/:id", deps.PaymentHandler.GetPaymentStatus)
			payments.POST("/:id/confirm", deps.PaymentHandler.ConfirmPayment)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/login", deps.AuthHandler.Login)

			verified := admin.Group("")
			verified.Use(middleware.JWTAuthMiddleware(cfg))
			{
				verified.POST("/payments/:id/verify", deps.PaymentHandler.AdminVerifyPayment)
			}
		}
	}

	return router
}
