package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/internal/services"
	"github.com/visitor_management/pkg/utils"
)

// CheckInHandler 封装了签到辅助查询相关的 HTTP 处理逻辑
type CheckInHandler struct {
	gateService services.GateService
	identity    services.IdentityService
	faces       services.FaceVerificationService
}

// NewCheckInHandler 创建一个新的 CheckInHandler 实例
func NewCheckInHandler(gateService services.GateService, identity services.IdentityService, faces services.FaceVerificationService) *CheckInHandler {
	return &CheckInHandler{
		gateService: gateService,
		identity:    identity,
		faces:       faces,
	}
}

// DuplicateCheckPayload 定义了重复签到检查请求的 JSON 结构体。
// establishmentId 可选；提供时必须与操作员令牌中的场所一致，
// 省略时按令牌场所查询。
type DuplicateCheckPayload struct {
	Phone           string `json:"phone" binding:"required,max=32"`
	EstablishmentID uint   `json:"establishmentId" binding:"omitempty"`
}

// DuplicateCheckData 是重复签到检查的响应结构
type DuplicateCheckData struct {
	HasActiveCheckIn bool                      `json:"hasActiveCheckIn"`
	ActiveCheckIn    *models.ActiveCheckInInfo `json:"activeCheckIn,omitempty"`
}

// GetAuthorizedGates godoc
// @Summary 获取当前操作员可操作的门禁
// @Description 管理员可见场所全部门禁；门岗员工按授权映射过滤
// @Tags checkin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]models.Gate}
// @Failure 401 {object} utils.APIErrorResponse "未认证或 Token 无效/过期"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /checkin/gates [get]
func (h *CheckInHandler) GetAuthorizedGates(c *gin.Context) {
	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	gates, err := h.gateService.AuthorizedGates(c.Request.Context(), operator)
	if err != nil {
		utils.RespondInternalServerError(c, "查询授权门禁失败", err.Error())
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gates, "")
}

// CheckDuplicate godoc
// @Summary 重复签到检查
// @Description 查询指定电话在场所内是否存在未签退的到访记录。场所范围取自操作员令牌；请求体中的 establishmentId 仅用于一致性校验
// @Tags checkin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param check body DuplicateCheckPayload true "访客电话与可选场所ID"
// @Success 200 {object} utils.SuccessResponse{data=DuplicateCheckData}
// @Failure 400 {object} utils.APIErrorResponse "电话号码格式错误"
// @Failure 403 {object} utils.APIErrorResponse "场所ID与操作员令牌不一致"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /checkin/check-duplicate [post]
func (h *CheckInHandler) CheckDuplicate(c *gin.Context) {
	var payload DuplicateCheckPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	phone := payload.Phone
	if err := utils.ValidatePhoneNumber(phone); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}
	if payload.EstablishmentID != 0 && payload.EstablishmentID != operator.EstablishmentID {
		utils.RespondAPIError(c, http.StatusForbidden, "无权查询其他场所的到访记录", nil)
		return
	}

	open, err := h.identity.ActiveCheckIn(c.Request.Context(), phone, operator.EstablishmentID)
	if err != nil {
		utils.RespondInternalServerError(c, "重复签到检查失败", err.Error())
		return
	}

	data := DuplicateCheckData{HasActiveCheckIn: open != nil}
	if open != nil {
		data.ActiveCheckIn = &models.ActiveCheckInInfo{
			CheckInID:   open.ID,
			VisitorName: open.VisitorName,
			PhoneNumber: open.PhoneNumber,
			GateID:      open.GateID,
			CheckInTime: open.CheckInTime,
		}
	}
	utils.RespondSuccess(c, http.StatusOK, data, "")
}

// GetFaceVerificationStatus godoc
// @Summary 查询访客人脸核验状态
// @Description 返回访客当前核验计数、是否仍需核验以及距阈值剩余次数
// @Tags checkin
// @Security BearerAuth
// @Produce json
// @Param phone path string true "访客电话"
// @Success 200 {object} utils.SuccessResponse{data=services.FaceVerificationStatus}
// @Failure 400 {object} utils.APIErrorResponse "电话号码格式错误"
// @Failure 404 {object} utils.APIErrorResponse "访客未找到"
// @Router /checkin/face-verification/{phone} [get]
func (h *CheckInHandler) GetFaceVerificationStatus(c *gin.Context) {
	phone := c.Param("phone")
	if err := utils.ValidatePhoneNumber(phone); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	status, err := h.faces.Status(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			utils.RespondNotFoundError(c, "访客")
		} else {
			utils.RespondInternalServerError(c, "查询核验状态失败", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, status, "")
}

// VerifyFace godoc
// @Summary 记录一次人脸核验
// @Description 以当前登录员工身份记录一次独立核验；同一员工对同一访客只计一次
// @Tags checkin
// @Security BearerAuth
// @Produce json
// @Param phone path string true "访客电话"
// @Success 200 {object} utils.SuccessResponse{data=services.FaceVerificationStatus} "回读后的最新核验状态"
// @Failure 400 {object} utils.APIErrorResponse "电话号码格式错误"
// @Failure 404 {object} utils.APIErrorResponse "访客未找到"
// @Failure 409 {object} utils.APIErrorResponse "访客已通过核验"
// @Router /checkin/face-verification/{phone}/verify [post]
func (h *CheckInHandler) VerifyFace(c *gin.Context) {
	phone := c.Param("phone")
	if err := utils.ValidatePhoneNumber(phone); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	status, err := h.faces.RecordVerification(c.Request.Context(), phone, operator.ID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrVisitorNotFound):
			utils.RespondNotFoundError(c, "访客")
		case errors.Is(err, services.ErrVisitorAlreadyVerified):
			utils.RespondConflictError(c, err.Error(), nil)
		default:
			utils.RespondInternalServerError(c, "记录核验失败", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, status, "核验已记录")
}
