package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/visitor_management/internal/auth"
	"github.com/visitor_management/internal/handlers"
)

// SetupVisitorRoutes 设置到访记录与二维码路由
func SetupVisitorRoutes(router *gin.RouterGroup, visitorHandler *handlers.VisitorHandler, qrHandler *handlers.QRHandler) {
	apiV1 := router.Group("/v1")

	visitorGroup := apiV1.Group("/visitors")
	visitorGroup.Use(auth.JWTMiddleware())
	{
		visitorGroup.GET("", visitorHandler.GetCheckIns)
		visitorGroup.POST("/checkin", visitorHandler.CreateCheckIn)
		visitorGroup.PUT("/:id/checkout", visitorHandler.CheckOut)
		visitorGroup.PUT("/:id/reverse-checkout", visitorHandler.ReverseCheckOut)
		visitorGroup.POST("/:id/archive", visitorHandler.ArchiveCheckIn)
	}

	qrGroup := apiV1.Group("/qr")
	qrGroup.Use(auth.JWTMiddleware())
	{
		qrGroup.POST("/resolve", qrHandler.ResolveQR)
		qrGroup.POST("/issue", qrHandler.IssueQR)
	}
}
