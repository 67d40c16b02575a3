package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/visitor_management/internal/auth"
	"github.com/visitor_management/internal/handlers"
	"github.com/visitor_management/internal/models"
)

// SetupGateRoutes 设置门禁管理路由，仅管理员可访问
func SetupGateRoutes(router *gin.RouterGroup, gateHandler *handlers.GateHandler) {
	apiV1 := router.Group("/v1")

	gateGroup := apiV1.Group("/gates")
	gateGroup.Use(auth.JWTMiddleware(), auth.RequireRole(models.RoleAdmin))
	{
		gateGroup.GET("", gateHandler.GetGates)
		gateGroup.POST("", gateHandler.CreateGate)
		gateGroup.PUT("/:id", gateHandler.UpdateGate)
		gateGroup.DELETE("/:id", gateHandler.DeleteGate)
	}
}
