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

// VisitorHandler 封装了到访记录生命周期相关的 HTTP 处理逻辑
type VisitorHandler struct {
	checkIns services.CheckInService
}

// NewVisitorHandler 创建一个新的 VisitorHandler 实例
func NewVisitorHandler(checkIns services.CheckInService) *VisitorHandler {
	return &VisitorHandler{checkIns: checkIns}
}

// CreateCheckInPayload 定义了直接创建到访记录请求的 JSON 结构体
type CreateCheckInPayload struct {
	Phone       string `json:"phone" binding:"required,max=32"`
	GateID      uint   `json:"gateId" binding:"required"`
	VisitorName string `json:"visitorName" binding:"omitempty,max=255"`
	ToMeet      string `json:"toMeet" binding:"omitempty,max=255"`
	Photo       string `json:"photo"`
}

// PagedCheckInsData 定义了到访记录列表的分页响应结构
type PagedCheckInsData struct {
	Items      []models.CheckInRecord `json:"items"`
	Pagination PaginationInfo         `json:"pagination"`
}

// respondCheckInError 将到访记录服务错误映射为 HTTP 状态码
func respondCheckInError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repositories.ErrCheckInNotFound):
		utils.RespondNotFoundError(c, "到访记录")
	case errors.Is(err, repositories.ErrVisitorNotFound):
		utils.RespondNotFoundError(c, "访客")
	case errors.Is(err, repositories.ErrGateNotFound), errors.Is(err, services.ErrGateNotInEstablishment):
		utils.RespondValidationError(c, err.Error())
	case errors.Is(err, utils.ErrInvalidPhoneNumberFormat):
		utils.RespondValidationError(c, err.Error())
	case errors.Is(err, services.ErrDuplicateActiveCheckIn),
		errors.Is(err, services.ErrAlreadyCheckedOut),
		errors.Is(err, services.ErrNotCheckedOut):
		utils.RespondConflictError(c, err.Error(), nil)
	default:
		utils.RespondInternalServerError(c, fallback, err.Error())
	}
}

// CreateCheckIn godoc
// @Summary 直接创建到访记录
// @Description 为已有访客创建一条放行记录；同一电话在本场所存在未签退记录时拒绝
// @Tags visitors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param checkin body CreateCheckInPayload true "到访信息"
// @Success 201 {object} utils.SuccessResponse{data=models.CheckInRecord} "创建成功的到访记录"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误或门禁不属于本场所"
// @Failure 404 {object} utils.APIErrorResponse "访客不存在"
// @Failure 409 {object} utils.APIErrorResponse "访客已存在未签退的到访记录"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /visitors/checkin [post]
func (h *VisitorHandler) CreateCheckIn(c *gin.Context) {
	var payload CreateCheckInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	record, err := h.checkIns.CreateCheckIn(c.Request.Context(), services.CreateCheckInParams{
		Phone:           payload.Phone,
		GateID:          payload.GateID,
		EstablishmentID: operator.EstablishmentID,
		VisitorName:     payload.VisitorName,
		ToMeet:          payload.ToMeet,
		Photo:           payload.Photo,
		Status:          models.CheckInStatusAdmitted,
	})
	if err != nil {
		respondCheckInError(c, err, "创建到访记录失败")
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, record, "到访记录创建成功")
}

// CheckOut godoc
// @Summary 访客签退
// @Description 为指定到访记录写入签退时间
// @Tags visitors
// @Security BearerAuth
// @Produce json
// @Param id path string true "到访记录ID"
// @Success 200 {object} utils.SuccessResponse{data=models.CheckInRecord}
// @Failure 404 {object} utils.APIErrorResponse "到访记录未找到"
// @Failure 409 {object} utils.APIErrorResponse "记录已签退"
// @Router /visitors/{id}/checkout [put]
func (h *VisitorHandler) CheckOut(c *gin.Context) {
	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	record, err := h.checkIns.CheckOut(c.Request.Context(), c.Param("id"), operator.EstablishmentID)
	if err != nil {
		respondCheckInError(c, err, "签退失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, record, "签退成功")
}

// ReverseCheckOut godoc
// @Summary 撤销签退
// @Description 清空签退时间使记录恢复在场状态；访客已有其他在场记录时拒绝
// @Tags visitors
// @Security BearerAuth
// @Produce json
// @Param id path string true "到访记录ID"
// @Success 200 {object} utils.SuccessResponse{data=models.CheckInRecord}
// @Failure 404 {object} utils.APIErrorResponse "到访记录未找到"
// @Failure 409 {object} utils.APIErrorResponse "记录未签退或访客已有在场记录"
// @Router /visitors/{id}/reverse-checkout [put]
func (h *VisitorHandler) ReverseCheckOut(c *gin.Context) {
	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	record, err := h.checkIns.ReverseCheckOut(c.Request.Context(), c.Param("id"), operator.EstablishmentID)
	if err != nil {
		respondCheckInError(c, err, "撤销签退失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, record, "已恢复在场状态")
}

// ArchiveCheckIn godoc
// @Summary 归档到访记录
// @Description 软删除记录，归档后对在场查询与列表不可见
// @Tags visitors
// @Security BearerAuth
// @Produce json
// @Param id path string true "到访记录ID"
// @Success 200 {object} utils.SuccessResponse "归档成功"
// @Failure 404 {object} utils.APIErrorResponse "到访记录未找到"
// @Router /visitors/{id}/archive [post]
func (h *VisitorHandler) ArchiveCheckIn(c *gin.Context) {
	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	if err := h.checkIns.Archive(c.Request.Context(), c.Param("id"), operator.EstablishmentID); err != nil {
		respondCheckInError(c, err, "归档失败")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, "记录已归档")
}

// GetCheckIns godoc
// @Summary 获取到访记录列表
// @Description 按场所获取到访记录，支持分页与状态筛选
// @Tags visitors
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param status query string false "状态筛选 ('open'、'checked_out' 或 'pending')"
// @Success 200 {object} utils.SuccessResponse{data=PagedCheckInsData}
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /visitors [get]
func (h *VisitorHandler) GetCheckIns(c *gin.Context) {
	type GetCheckInsQuery struct {
		Page   int    `form:"page,default=1"`
		Limit  int    `form:"limit,default=10"`
		Status string `form:"status" binding:"omitempty,oneof=open checked_out pending"`
	}

	var queryParams GetCheckInsQuery
	if err := c.ShouldBindQuery(&queryParams); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if queryParams.Page < 1 {
		queryParams.Page = 1
	}
	if queryParams.Limit <= 0 {
		queryParams.Limit = 10
	}

	operator, ok := currentUser(c)
	if !ok {
		utils.RespondUnauthorizedError(c)
		return
	}

	items, total, err := h.checkIns.List(c.Request.Context(), operator.EstablishmentID, queryParams.Status, queryParams.Page, queryParams.Limit)
	if err != nil {
		utils.RespondInternalServerError(c, "查询到访记录失败", err.Error())
		return
	}

	totalPages := total / int64(queryParams.Limit)
	if total%int64(queryParams.Limit) != 0 {
		totalPages++
	}
	utils.RespondSuccess(c, http.StatusOK, PagedCheckInsData{
		Items: items,
		Pagination: PaginationInfo{
			TotalItems:  total,
			TotalPages:  totalPages,
			CurrentPage: queryParams.Page,
			PageSize:    queryParams.Limit,
		},
	}, "")
}
