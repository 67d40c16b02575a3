package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/internal/services"
	"github.com/visitor_management/internal/workflow"
	"github.com/visitor_management/pkg/utils"
)

func TestRespondWorkflowErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"会话不存在", workflow.ErrSessionNotFound, http.StatusNotFound},
		{"越权门禁", workflow.ErrGateNotAuthorized, http.StatusForbidden},
		{"非法转换", workflow.ErrInvalidTransition, http.StatusConflict},
		{"迟到结果", workflow.ErrStaleAttempt, http.StatusConflict},
		{"未知识别方式", workflow.ErrUnknownMethod, http.StatusBadRequest},
		{"登记信息不完整", workflow.ErrRegistrationIncomplete, http.StatusBadRequest},
		{"二维码格式错误", services.ErrInvalidQRTokenFormat, http.StatusBadRequest},
		{"电话格式错误", utils.ErrInvalidPhoneNumberFormat, http.StatusBadRequest},
		{"访客已在场", services.ErrDuplicateActiveCheckIn, http.StatusConflict},
		// 登记电话撞上已有访客档案是业务冲突，不是服务器错误
		{"电话已有访客档案", repositories.ErrVisitorPhoneExists, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondWorkflowError(c, tt.err)
			if recorder.Code != tt.want {
				t.Errorf("respondWorkflowError(%v) 状态码 = %d, 期望 %d", tt.err, recorder.Code, tt.want)
			}
		})
	}
}
