package workflow

import (
	"sync"
	"time"

	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/services"
)

// RegistrationForm 是新访客登记步骤的表单状态。
// 四项全部必填：姓名、电话、受访人、现场照片。
type RegistrationForm struct {
	VisitorName string `json:"visitorName"`
	Phone       string `json:"phone"`
	ToMeet      string `json:"toMeet"`
	Photo       string `json:"photo"` // base64 现场照片
}

// Session 是一次签到工作流会话。
// 不可变上下文（操作员、场所、授权门禁集合）在创建时固定；
// 可变状态由会话自身的互斥锁串行化。
type Session struct {
	ID              string
	OperatorID      uint
	EstablishmentID uint
	// AuthorizedGates 在会话创建时一次性取出，会话生命周期内不可变
	AuthorizedGates []models.Gate
	CreatedAt       time.Time

	mu sync.Mutex
	// generation 在每次重置/换门禁时递增；异步调用在应用结果前核对
	// 代次，迟到的旧尝试结果被丢弃而不是写入新尝试的状态
	generation uint64

	step       Step
	gate       *models.Gate
	method     Method
	proximity  *ProximityResult
	resolution *services.Resolution
	conflict   *models.ActiveCheckInInfo
	form       RegistrationForm
	photo      string // 临时照片数据，所有退出路径都必须清空
	checkInID  string
	pending    bool // 新访客路径的放行为"待审批"
}

// clearTransient 清空身份、照片与表单等临时状态。
// 任何退出路径都必须经过这里，保证采集到的照片数据不被留存。
func (s *Session) clearTransient() {
	s.gate = nil
	s.method = ""
	s.proximity = nil
	s.resolution = nil
	s.conflict = nil
	s.form = RegistrationForm{}
	s.photo = ""
	s.checkInID = ""
	s.pending = false
}

// SessionView 是回传给操作端的会话快照
type SessionView struct {
	ID              string                    `json:"id"`
	Step            Step                      `json:"step"`
	Method          Method                    `json:"method,omitempty"`
	AuthorizedGates []models.Gate             `json:"authorizedGates"`
	Gate            *models.Gate              `json:"gate,omitempty"`
	Proximity       *ProximityResult          `json:"proximity,omitempty"`
	Resolution      *services.Resolution      `json:"resolution,omitempty"`
	Conflict        *models.ActiveCheckInInfo `json:"conflict,omitempty"`
	Form            *RegistrationForm         `json:"form,omitempty"`
	CheckInID       string                    `json:"checkinId,omitempty"`
	PendingApproval bool                      `json:"pendingApproval,omitempty"`
}

// view 生成当前状态的快照，调用方必须持有 s.mu
func (s *Session) view() *SessionView {
	v := &SessionView{
		ID:              s.ID,
		Step:            s.step,
		Method:          s.method,
		AuthorizedGates: s.AuthorizedGates,
		Gate:            s.gate,
		Proximity:       s.proximity,
		Resolution:      s.resolution,
		Conflict:        s.conflict,
		CheckInID:       s.checkInID,
		PendingApproval: s.pending,
	}
	if s.step == StepRegister {
		form := s.form
		form.Photo = "" // 快照不回传照片数据
		v.Form = &form
	}
	return v
}
