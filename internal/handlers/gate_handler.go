package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/internal/services"
	"github.com/visitor_management/pkg/utils"
)

// GateHandler 封装了门禁管理相关的 HTTP 处理逻辑
type GateHandler struct {
	service services.GateService
}

// NewGateHandler 创建一个新的 GateHandler 实例
func NewGateHandler(service services.GateService) *GateHandler {
	return &GateHandler{service: service}
}

// GatePayload 定义了创建/更新门禁请求的 JSON 结构体。
// 开启围栏时三项定位参数必须同时给出。
type GatePayload struct {
	Name              string   `json:"name" binding:"required,max=255"`
	GeofencingEnabled bool     `json:"geofencingEnabled"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	RadiusMeters      *float64 `json:"radiusMeters,omitempty" binding:"omitempty,gt=0"`
}

func (p *GatePayload) toModel(establishmentID uint) *models.Gate {
	return &models.Gate{
		Name:              p.Name,
		EstablishmentID:   establishmentID,
		GeofencingEnabled: p.GeofencingEnabled,
		Latitude:          p.Latitude,
		Longitude:         p.Longitude,
		RadiusMeters:      p.RadiusMeters,
	}
}

func respondGateError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repositories.ErrGateNotFound), errors.Is(err, services.ErrGateNotInEstablishment):
		utils.RespondNotFoundError(c, "门禁")
	case errors.Is(err, models.ErrGeofenceIncomplete),
		errors.Is(err, utils.ErrInvalidLatitude),
		errors.Is(err, utils.ErrInvalidLongitude):
		utils.RespondValidationError(c, err.Error())
	default:
		utils.RespondInternalServerError(c, fallback, err.Error())
	}
}

// GetGates godoc
// @Summary 获取场所门禁列表
// @Description 返回当前场所的全部门禁 (管理员视角)
// @Tags gates
// @Security BearerAuth
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]models.Gate}
// @Failure 401 {object} utils.APIErrorResponse "未认证或 Token 无效/过期"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /gates [get]
func (h *GateHandler) GetGates(c *gin.Context) {
	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	// 管理端列表不按操作员授权过滤，直接取场所全量
	admin := *operator
	admin.Role = models.RoleAdmin
	gates, err := h.service.AuthorizedGates(c.Request.Context(), &admin)
	if err != nil {
		utils.RespondInternalServerError(c, "查询门禁失败", err.Error())
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gates, "")
}

// CreateGate godoc
// @Summary 新增门禁
// @Description 在当前场所创建门禁；开启围栏时必须同时提供圆心与半径
// @Tags gates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param gate body GatePayload true "门禁信息"
// @Success 201 {object} utils.SuccessResponse{data=models.Gate} "创建成功的门禁"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误或围栏配置不完整"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /gates [post]
func (h *GateHandler) CreateGate(c *gin.Context) {
	var payload GatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	gate := payload.toModel(operator.EstablishmentID)
	if err := h.service.CreateGate(c.Request.Context(), gate); err != nil {
		respondGateError(c, err, "创建门禁失败")
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, gate, "门禁创建成功")
}

// UpdateGate godoc
// @Summary 更新门禁
// @Description 更新门禁名称与围栏配置；开启围栏时必须同时提供圆心与半径
// @Tags gates
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "门禁ID"
// @Param gate body GatePayload true "门禁信息"
// @Success 200 {object} utils.SuccessResponse{data=models.Gate}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误或围栏配置不完整"
// @Failure 404 {object} utils.APIErrorResponse "门禁未找到"
// @Router /gates/{id} [put]
func (h *GateHandler) UpdateGate(c *gin.Context) {
	gateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.RespondValidationError(c, "门禁ID无效")
		return
	}

	var payload GatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	gate := payload.toModel(operator.EstablishmentID)
	gate.ID = uint(gateID)
	if err := h.service.UpdateGate(c.Request.Context(), gate); err != nil {
		respondGateError(c, err, "更新门禁失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gate, "门禁更新成功")
}

// DeleteGate godoc
// @Summary 删除门禁
// @Description 软删除指定门禁
// @Tags gates
// @Security BearerAuth
// @Produce json
// @Param id path int true "门禁ID"
// @Success 200 {object} utils.SuccessResponse "删除成功"
// @Failure 404 {object} utils.APIErrorResponse "门禁未找到"
// @Router /gates/{id} [delete]
func (h *GateHandler) DeleteGate(c *gin.Context) {
	gateID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.RespondValidationError(c, "门禁ID无效")
		return
	}

	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	if err := h.service.DeleteGate(c.Request.Context(), uint(gateID), operator.EstablishmentID); err != nil {
		respondGateError(c, err, "删除门禁失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, "门禁删除成功")
}
