package workflow

import "errors"

// Step 是签到工作流的步骤。封闭类型，所有转换经过显式校验，
// 不存在"未知步骤"兜底分支。
type Step string

const (
	StepGateSelection   Step = "gate-selection"   // 选择入口门禁
	StepGeofenceCheck   Step = "geofence-check"   // 地理围栏校验失败后的处置步骤
	StepMethodSelection Step = "method-selection" // 选择身份识别方式
	StepQR              Step = "qr"               // 扫码识别
	StepPhone           Step = "phone"            // 手机号识别
	StepFace            Step = "face"             // 人脸识别
	StepManual          Step = "manual"           // 人工录入
	StepVerification    Step = "verification"     // 人脸核验计数
	StepRegister        Step = "register"         // 新访客登记
	StepAdmitted        Step = "admitted"         // 终态：已放行（或待审批）
)

// 工作流状态机错误
var (
	ErrSessionNotFound   = errors.New("工作流会话不存在或已过期")
	ErrInvalidTransition = errors.New("当前步骤不允许该操作")
	ErrUnknownMethod     = errors.New("未知的身份识别方式")
	ErrGateNotAuthorized = errors.New("该门禁不在本次会话的授权集合内")
	// ErrStaleAttempt 表示异步调用结果到达时会话已被重置，
	// 迟到的结果不得污染更新一次尝试的状态
	ErrStaleAttempt = errors.New("本次尝试已被放弃，结果不再生效")
)

// Valid 判断步骤是否为已知步骤
func (s Step) Valid() bool {
	switch s {
	case StepGateSelection, StepGeofenceCheck, StepMethodSelection,
		StepQR, StepPhone, StepFace, StepManual,
		StepVerification, StepRegister, StepAdmitted:
		return true
	}
	return false
}

// IsMethodStep 判断步骤是否为四种身份识别路径之一
func (s Step) IsMethodStep() bool {
	switch s {
	case StepQR, StepPhone, StepFace, StepManual:
		return true
	}
	return false
}

// Method 是操作员在 method-selection 步骤选择的识别方式
type Method string

const (
	MethodQR     Method = "qr"
	MethodPhone  Method = "phone"
	MethodFace   Method = "face"
	MethodManual Method = "manual"
)

// StepFor 返回识别方式对应的工作流步骤
func (m Method) StepFor() (Step, error) {
	switch m {
	case MethodQR:
		return StepQR, nil
	case MethodPhone:
		return StepPhone, nil
	case MethodFace:
		return StepFace, nil
	case MethodManual:
		return StepManual, nil
	default:
		return "", ErrUnknownMethod
	}
}
