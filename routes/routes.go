package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hts-platform/order-intake/handlers"
	"github.com/hts-platform/order-intake/service"
)

func RegisterRoutes(router *gin.Engine, svc *service.OrderCommandService, logger *zap.Logger) {
	orderHandler := handlers.NewOrderHandler(svc, logger)

	api := router.Group("/api")
	{
		api.POST("/orders", orderHandler.PlaceOrder)
		api.DELETE("/orders/:id", orderHandler.CancelOrder)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
