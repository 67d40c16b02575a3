package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/visitor_management/internal/auth"
	"github.com/visitor_management/internal/handlers"
)

// SetupCheckInRoutes 设置签到工作流与辅助查询路由
func SetupCheckInRoutes(router *gin.RouterGroup, sessionHandler *handlers.SessionHandler, checkInHandler *handlers.CheckInHandler) {
	apiV1 := router.Group("/v1")

	checkInGroup := apiV1.Group("/checkin")
	checkInGroup.Use(auth.JWTMiddleware())
	{
		// 签到辅助查询
		checkInGroup.GET("/gates", checkInHandler.GetAuthorizedGates)
		checkInGroup.POST("/check-duplicate", checkInHandler.CheckDuplicate)
		checkInGroup.GET("/face-verification/:phone", checkInHandler.GetFaceVerificationStatus)
		checkInGroup.POST("/face-verification/:phone/verify", checkInHandler.VerifyFace)

		// 工作流会话
		sessionGroup := checkInGroup.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.POST("/:id/gate", sessionHandler.SelectGate)
			sessionGroup.POST("/:id/proximity/retry", sessionHandler.RetryProximity)
			sessionGroup.POST("/:id/method", sessionHandler.ChooseMethod)
			sessionGroup.POST("/:id/resolve", sessionHandler.Resolve)
			sessionGroup.POST("/:id/verify", sessionHandler.RecordVerification)
			sessionGroup.POST("/:id/register", sessionHandler.SubmitRegistration)
			sessionGroup.POST("/:id/reset", sessionHandler.ResetSession)
		}
	}
}
