package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/internal/services"
	"github.com/visitor_management/pkg/utils"
)

// QRHandler 封装了二维码令牌相关的 HTTP 处理逻辑。
// 令牌载荷到访客的反向映射只存在于服务端，客户端无法离线还原。
type QRHandler struct {
	identity services.IdentityService
}

// NewQRHandler 创建一个新的 QRHandler 实例
func NewQRHandler(identity services.IdentityService) *QRHandler {
	return &QRHandler{identity: identity}
}

// ResolveQRPayload 定义了二维码解析请求的 JSON 结构体。
// qrHash 是令牌的 12 位十六进制载荷；扫码端也可以直接提交完整令牌 qrToken，
// 两者至少给出其一。
type ResolveQRPayload struct {
	QRHash  string `json:"qrHash" binding:"omitempty,len=12,hexadecimal"`
	QRToken string `json:"qrToken" binding:"omitempty,max=64"`
}

// ResolveQRData 是二维码反查的响应结构
type ResolveQRData struct {
	PhoneNumber string               `json:"phoneNumber"`
	Resolution  *services.Resolution `json:"resolution"`
}

// IssueQRPayload 定义了二维码签发请求的 JSON 结构体
type IssueQRPayload struct {
	Phone string `json:"phone" binding:"required,max=32"`
}

// IssueQRData 是二维码签发的响应结构
type IssueQRData struct {
	QRToken string `json:"qrToken"`
}

// ResolveQR godoc
// @Summary 解析二维码令牌
// @Description 对提交的载荷 qrHash (或完整令牌 qrToken) 执行服务端权威反查，返回访客电话与身份解析结果
// @Tags qr
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param token body ResolveQRPayload true "二维码载荷或完整令牌"
// @Success 200 {object} utils.SuccessResponse{data=ResolveQRData} "访客电话与身份解析结果"
// @Failure 400 {object} utils.APIErrorResponse "令牌格式无效或两个字段均未提供"
// @Failure 404 {object} utils.APIErrorResponse "载荷未对应任何访客"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /qr/resolve [post]
func (h *QRHandler) ResolveQR(c *gin.Context) {
	var payload ResolveQRPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	var resolution *services.Resolution
	var err error
	switch {
	case payload.QRHash != "":
		// 载荷形式：先反查电话，再按电话解析身份
		phone, lookupErr := h.identity.ResolvePhoneByQRPayload(ctx, strings.ToUpper(payload.QRHash))
		if lookupErr != nil {
			if errors.Is(lookupErr, services.ErrQRPayloadUnknown) {
				utils.RespondNotFoundError(c, "访客")
			} else {
				utils.RespondInternalServerError(c, "解析二维码失败", lookupErr.Error())
			}
			return
		}
		resolution, err = h.identity.ResolveByPhone(ctx, phone)
	case payload.QRToken != "":
		resolution, err = h.identity.ResolveByQRToken(ctx, payload.QRToken)
	default:
		utils.RespondValidationError(c, "qrHash 与 qrToken 至少提供一项")
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrInvalidQRTokenFormat) {
			utils.RespondValidationError(c, err.Error())
		} else {
			utils.RespondInternalServerError(c, "解析二维码失败", err.Error())
		}
		return
	}
	if resolution.Outcome == services.OutcomeUnknown || resolution.Visitor == nil {
		utils.RespondNotFoundError(c, "访客")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, ResolveQRData{
		PhoneNumber: resolution.Visitor.PhoneNumber,
		Resolution:  resolution,
	}, "")
}

// IssueQR godoc
// @Summary 签发访客二维码令牌
// @Description 为已有访客重新生成确定性的二维码令牌，供打印或下发
// @Tags qr
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param visitor body IssueQRPayload true "访客电话"
// @Success 200 {object} utils.SuccessResponse{data=IssueQRData}
// @Failure 400 {object} utils.APIErrorResponse "电话号码格式错误"
// @Failure 404 {object} utils.APIErrorResponse "访客未找到"
// @Router /qr/issue [post]
func (h *QRHandler) IssueQR(c *gin.Context) {
	var payload IssueQRPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	token, err := h.identity.IssueQRToken(c.Request.Context(), payload.Phone)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrVisitorNotFound):
			utils.RespondNotFoundError(c, "访客")
		case errors.Is(err, utils.ErrInvalidPhoneNumberFormat):
			utils.RespondValidationError(c, err.Error())
		default:
			utils.RespondInternalServerError(c, "签发二维码失败", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, IssueQRData{QRToken: token}, "")
}
