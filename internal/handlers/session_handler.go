package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/internal/services"
	"github.com/visitor_management/internal/workflow"
	"github.com/visitor_management/pkg/geo"
	"github.com/visitor_management/pkg/utils"
)

// SessionHandler 封装了签到工作流会话的 HTTP 处理逻辑。
// 会话的全部状态变化都经由工作流引擎，处理器只做绑定与错误映射。
type SessionHandler struct {
	engine *workflow.Engine
}

// NewSessionHandler 创建一个新的 SessionHandler 实例
func NewSessionHandler(engine *workflow.Engine) *SessionHandler {
	return &SessionHandler{engine: engine}
}

// PositionPayload 是操作端上报的定位信息
type PositionPayload struct {
	Latitude  float64 `json:"latitude" binding:"required_with=Longitude"`
	Longitude float64 `json:"longitude"`
}

func (p *PositionPayload) toCoordinate() *geo.Coordinate {
	if p == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// SelectGatePayload 定义了选择门禁请求的 JSON 结构体
type SelectGatePayload struct {
	GateID   uint             `json:"gateId" binding:"required"`
	Position *PositionPayload `json:"position,omitempty"`
}

// RetryProximityPayload 定义了围栏重试请求的 JSON 结构体
type RetryProximityPayload struct {
	Position *PositionPayload `json:"position,omitempty"`
}

// ChooseMethodPayload 定义了选择识别方式请求的 JSON 结构体
type ChooseMethodPayload struct {
	Method string `json:"method" binding:"required,oneof=qr phone face manual"`
}

// RegisterPayload 定义了新访客登记请求的 JSON 结构体
type RegisterPayload struct {
	VisitorName string `json:"visitorName" binding:"required,max=255"`
	Phone       string `json:"phone" binding:"required,max=32"`
	ToMeet      string `json:"toMeet" binding:"required,max=255"`
	Photo       string `json:"photo"` // base64 现场照片，face 路径可复用会话中已采集的照片
}

// respondWorkflowError 将工作流引擎错误映射为 HTTP 状态码
func respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrSessionNotFound):
		utils.RespondNotFoundError(c, "工作流会话")
	case errors.Is(err, workflow.ErrGateNotAuthorized):
		utils.RespondAPIError(c, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrStaleAttempt):
		utils.RespondConflictError(c, err.Error(), nil)
	case errors.Is(err, workflow.ErrUnknownMethod),
		errors.Is(err, workflow.ErrRegistrationIncomplete),
		errors.Is(err, services.ErrInvalidQRTokenFormat),
		errors.Is(err, utils.ErrInvalidPhoneNumberFormat):
		utils.RespondValidationError(c, err.Error())
	case errors.Is(err, services.ErrDuplicateActiveCheckIn),
		errors.Is(err, repositories.ErrVisitorPhoneExists):
		// 登记表单的电话被改成已有访客的号码时，按业务冲突而非服务器错误呈现
		utils.RespondConflictError(c, err.Error(), nil)
	default:
		utils.RespondInternalServerError(c, "工作流操作失败", err.Error())
	}
}

// StartSession godoc
// @Summary 创建签到工作流会话
// @Description 为当前操作员创建一个新会话，授权门禁集合在创建时一次性取出
// @Tags checkin-workflow
// @Security BearerAuth
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=workflow.SessionView} "会话已创建，处于 gate-selection 步骤"
// @Failure 401 {object} utils.APIErrorResponse "未认证或 Token 无效/过期"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /checkin/sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	view, err := h.engine.StartSession(c.Request.Context(), operator)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, view, "会话已创建")
}

// GetSession godoc
// @Summary 查询会话状态
// @Description 返回会话当前步骤与相关状态的快照
// @Tags checkin-workflow
// @Security BearerAuth
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} utils.SuccessResponse{data=workflow.SessionView}
// @Failure 404 {object} utils.APIErrorResponse "会话不存在或已过期"
// @Router /checkin/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	view, err := h.engine.Snapshot(c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, view, "")
}

// SelectGate godoc
// @Summary 选择入口门禁
// @Description 在 gate-selection 步骤选择门禁并立即执行围栏判定；判定失败进入 geofence-check
// @Tags checkin-workflow
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param gate body SelectGatePayload true "门禁与可选定位"
// @Success 200 {object} utils.SuccessResponse{data=workflow.SessionView}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 403 {object} utils.APIErrorResponse "门禁不在授权集合内"
// @Failure 404 {object} utils.APIErrorResponse "会话不存在或已过期"
// @Failure 409 {object} utils.APIErrorResponse "当前步骤不允许该操作"
// @Router /checkin/sessions/{id}/gate [post]
func (h *SessionHandler) SelectGate(c *gin.Context) {
	var payload SelectGatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if payload.Position != nil {
		if err := utils.ValidateCoordinate(payload.Position.Latitude, payload.Position.Longitude); err != nil {
			utils.RespondValidationError(c, err.Error())
			return
		}
	}

	view, err := h.engine.SelectGate(c.Param("id"), payload.GateID, payload.Position.toCoordinate())
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, view, "")
}

// RetryProximity godoc
// @Summary 围栏判定重试
// @Description 在 geofence-check 步骤用新获取的定位对同一门禁重试围栏判定
// @Tags checkin-workflow
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param position body RetryProximityPayload true "新的定位信息"
// @Success 200 {object} utils.SuccessResponse{data=workflow.SessionView}
// @Failure 404 {object} utils.APIErrorResponse "会话不存在或已过期"
// @Failure 409 {object} utils.APIErrorResponse "当前步骤不允许该操作"
// @Router /checkin/sessions/{id}/proximity/retry [post]
func (h *SessionHandler) RetryProximity(c *gin.Context) {
	var payload RetryProximityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if payload.Position != nil {
		if err := utils.ValidateCoordinate(payload.Position.Latitude, payload.Position.Longitude); err != nil {
			utils.RespondValidationError(c, err.Error())
			return
		}
	}

	view, err := h.engine.RetryProximity(c.Param("id"), payload.Position.toCoordinate())
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, view, "")
}

// ChooseMethod godoc
// @Summary 选择身份识别方式
// @Description 在 method-selection 步骤选择 qr/phone/face/manual 之一
// @Tags checkin-workflow
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param method body ChooseMethodPayload true "识别方式"
// @Success 200 {object} utils.SuccessResponse{data=workflow.SessionView}
// @Failure 400 {object} utils.APIErrorResponse "未知的识别方式"
// @Failure 404 {object} utils.APIErrorResponse "会话不存在或已过期"
// @Failure 409 {object} utils.APIErrorResponse "当前步骤不允许该操作"
// @Router /checkin/sessions/{id}/method [post]
func (h *SessionHandler) ChooseMethod(c *gin.Context) {
	var payload ChooseMethodPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	view, err := h.engine.ChooseMethod(c.Param("id"), workflow.Method(payload.Method))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, view, "")
}

// Resolve godoc
// @Summary 执行身份解析
// @Description 在识别方式步骤执行重复签到检查与身份解析；命中在场记录时返回冲突信息且步骤不变
// @Tags checkin-workflow
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param input body workflow.ResolveInput true "解析输入 (qr 路径传 qrToken，其余路径传 phone)"
// @Success 200 {object} utils.SuccessResponse{data=workflow.SessionView}
// @Failure 400 {object} utils.APIErrorResponse "电话号码或二维码令牌格式错误"
// @Failure 404 {object} utils.APIErrorResponse "会话不存在或已过期"
// @Failure 409 {object} utils.APIErrorResponse "当前步骤不允许该操作或结果已过期"
// @Router /checkin/sessions/{id}/resolve [post]
func (h *SessionHandler) Resolve(c *gin.Context) {
	var input workflow.ResolveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	view, err := h.engine.Resolve(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, view, "")
}

// RecordVerification godoc
// @Summary 记录一次人脸核验
// @Description 在 verification 步骤记录当前操作员的一次独立核验；达到阈值后立即放行
// @Tags checkin-workflow
// @Security BearerAuth
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} utils.SuccessResponse{data=workflow.SessionView}
// @Failure 404 {object} utils.APIErrorResponse "会话不存在或已过期"
// @Failure 409 {object} utils.APIErrorResponse "当前步骤不允许该操作"
// @Router /checkin/sessions/{id}/verify [post]
func (h *SessionHandler) RecordVerification(c *gin.Context) {
	view, err := h.engine.RecordVerification(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, view, "")
}

// SubmitRegistration godoc
// @Summary 提交新访客登记
// @Description 在 register 步骤提交登记表单，四项必填；成功后进入待审批放行
// @Tags checkin-workflow
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param form body RegisterPayload true "登记表单"
// @Success 200 {object} utils.SuccessResponse{data=workflow.SessionView}
// @Failure 400 {object} utils.APIErrorResponse "登记信息不完整或格式错误"
// @Failure 404 {object} utils.APIErrorResponse "会话不存在或已过期"
// @Failure 409 {object} utils.APIErrorResponse "当前步骤不允许该操作、访客已在场或电话已有访客档案"
// @Router /checkin/sessions/{id}/register [post]
func (h *SessionHandler) SubmitRegistration(c *gin.Context) {
	var payload RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	view, err := h.engine.SubmitRegistration(c.Request.Context(), c.Param("id"), workflow.RegistrationForm{
		VisitorName: payload.VisitorName,
		Phone:       payload.Phone,
		ToMeet:      payload.ToMeet,
		Photo:       payload.Photo,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, view, "")
}

// ResetSession godoc
// @Summary 重置会话
// @Description 从任意步骤回到 gate-selection，清空身份、照片与表单状态
// @Tags checkin-workflow
// @Security BearerAuth
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} utils.SuccessResponse{data=workflow.SessionView}
// @Failure 404 {object} utils.APIErrorResponse "会话不存在或已过期"
// @Router /checkin/sessions/{id}/reset [post]
func (h *SessionHandler) ResetSession(c *gin.Context) {
	view, err := h.engine.Reset(c.Param("id"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, view, "")
}
