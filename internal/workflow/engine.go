package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/services"
	"github.com/visitor_management/pkg/geo"
	"github.com/visitor_management/pkg/qrtoken"
	"github.com/visitor_management/pkg/utils"
)

// ErrRegistrationIncomplete 表示新访客登记缺少必填项
var ErrRegistrationIncomplete = errors.New("登记信息不完整：姓名、电话、受访人、现场照片均为必填")

// ResolveInput 是身份解析步骤的输入。
// qr 路径使用 QRToken；phone/face/manual 路径使用 Phone；
// face 路径附带采集到的照片。
type ResolveInput struct {
	Phone   string `json:"phone,omitempty"`
	QRToken string `json:"qrToken,omitempty"`
	Photo   string `json:"photo,omitempty"`
}

// Engine 驱动签到工作流状态机。
// 所有网络调用在会话锁外执行，结果按尝试代次提交：
// 会话在调用期间被重置时，迟到的结果以 ErrStaleAttempt 丢弃。
type Engine struct {
	store    *SessionStore
	gates    services.GateService
	identity services.IdentityService
	faces    services.FaceVerificationService
	checkIns services.CheckInService
}

// NewEngine 创建一个新的工作流引擎
func NewEngine(store *SessionStore, gates services.GateService, identity services.IdentityService, faces services.FaceVerificationService, checkIns services.CheckInService) *Engine {
	return &Engine{
		store:    store,
		gates:    gates,
		identity: identity,
		faces:    faces,
		checkIns: checkIns,
	}
}

// StartSession 创建一个新的工作流会话。
// 授权门禁集合在此一次性取出，会话生命周期内不再变化。
func (e *Engine) StartSession(ctx context.Context, operator *models.User) (*SessionView, error) {
	gates, err := e.gates.AuthorizedGates(ctx, operator)
	if err != nil {
		return nil, fmt.Errorf("获取授权门禁失败: %w", err)
	}

	session := &Session{
		OperatorID:      operator.ID,
		EstablishmentID: operator.EstablishmentID,
		AuthorizedGates: gates,
		step:            StepGateSelection,
	}
	e.store.Put(session)

	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

// Snapshot 返回会话的当前状态快照
func (e *Engine) Snapshot(sessionID string) (*SessionView, error) {
	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

// SelectGate 在 gate-selection 步骤选择入口门禁并立即执行围栏判定。
// 围栏关闭或判定通过进入 method-selection；判定失败进入 geofence-check。
func (e *Engine) SelectGate(sessionID string, gateID uint, pos *geo.Coordinate) (*SessionView, error) {
	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.step != StepGateSelection {
		return nil, ErrInvalidTransition
	}

	var gate *models.Gate
	for i := range session.AuthorizedGates {
		if session.AuthorizedGates[i].ID == gateID {
			gate = &session.AuthorizedGates[i]
			break
		}
	}
	if gate == nil {
		return nil, ErrGateNotAuthorized
	}

	// 选择门禁开启新一次尝试
	session.generation++
	session.clearTransient()
	session.gate = gate

	result := CheckProximity(pos, gate)
	session.proximity = &result
	if result.Allowed {
		session.step = StepMethodSelection
	} else {
		session.step = StepGeofenceCheck
	}
	return session.view(), nil
}

// RetryProximity 在 geofence-check 步骤用新获取的位置对同一门禁重试围栏判定
func (e *Engine) RetryProximity(sessionID string, pos *geo.Coordinate) (*SessionView, error) {
	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.step != StepGeofenceCheck {
		return nil, ErrInvalidTransition
	}

	result := CheckProximity(pos, session.gate)
	session.proximity = &result
	if result.Allowed {
		session.step = StepMethodSelection
	}
	return session.view(), nil
}

// ChooseMethod 在 method-selection 步骤选择身份识别方式
func (e *Engine) ChooseMethod(sessionID string, method Method) (*SessionView, error) {
	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	step, err := method.StepFor()
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.step != StepMethodSelection {
		return nil, ErrInvalidTransition
	}
	session.method = method
	session.step = step
	return session.view(), nil
}

// Resolve 在识别方式步骤执行 重复签到检查 → 身份解析 → 终态分派。
// 冲突与错误都保持当前步骤不变，由操作员显式处置。
func (e *Engine) Resolve(ctx context.Context, sessionID string, input ResolveInput) (*SessionView, error) {
	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	if !session.step.IsMethodStep() {
		session.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	method := session.method
	establishmentID := session.EstablishmentID
	gateID := session.gate.ID
	gen := session.generation
	session.mu.Unlock()

	// ---- 网络阶段（锁外） ----

	phone := strings.TrimSpace(input.Phone)
	if method == MethodQR {
		payload, ok := qrtoken.ExtractPayload(input.QRToken)
		if !ok {
			// 格式错误对本次扫描是终态，操作员重新扫码
			return nil, services.ErrInvalidQRTokenFormat
		}
		resolved, err := e.identity.ResolvePhoneByQRPayload(ctx, payload)
		if err != nil {
			if errors.Is(err, services.ErrQRPayloadUnknown) {
				// 格式合法但载荷无归属：按未知访客进入登记路径
				phone = ""
			} else {
				return nil, err
			}
		} else {
			phone = resolved
		}
	} else {
		if err := utils.ValidatePhoneNumber(phone); err != nil {
			return nil, err
		}
	}

	// 重复签到守卫必须先于身份解析完成
	var conflict *models.ActiveCheckInInfo
	if phone != "" {
		open, err := e.identity.ActiveCheckIn(ctx, phone, establishmentID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			conflict = &models.ActiveCheckInInfo{
				CheckInID:   open.ID,
				VisitorName: open.VisitorName,
				PhoneNumber: open.PhoneNumber,
				GateID:      open.GateID,
				CheckInTime: open.CheckInTime,
			}
		}
	}

	var resolution *services.Resolution
	var record *models.CheckInRecord
	if conflict == nil {
		if phone == "" {
			resolution = &services.Resolution{Outcome: services.OutcomeUnknown}
		} else {
			resolution, err = e.identity.ResolveByPhone(ctx, phone)
			if err != nil {
				return nil, err
			}
		}

		// 已核验访客直接放行，写入到访记录
		if resolution.Outcome == services.OutcomeKnownVerified {
			record, err = e.checkIns.CreateCheckIn(ctx, services.CreateCheckInParams{
				Phone:           phone,
				GateID:          gateID,
				EstablishmentID: establishmentID,
				Photo:           input.Photo,
				Status:          models.CheckInStatusAdmitted,
			})
			if err != nil {
				if errors.Is(err, services.ErrDuplicateActiveCheckIn) {
					// 守卫与写入之间出现并发签到，按冲突呈现
					open, guardErr := e.identity.ActiveCheckIn(ctx, phone, establishmentID)
					if guardErr == nil && open != nil {
						conflict = &models.ActiveCheckInInfo{
							CheckInID:   open.ID,
							VisitorName: open.VisitorName,
							PhoneNumber: open.PhoneNumber,
							GateID:      open.GateID,
							CheckInTime: open.CheckInTime,
						}
					} else {
						return nil, err
					}
				} else {
					return nil, err
				}
			}
		}
	}

	// ---- 提交阶段 ----

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.generation != gen {
		return nil, ErrStaleAttempt
	}

	if conflict != nil {
		session.conflict = conflict
		return session.view(), nil
	}
	session.conflict = nil

	switch resolution.Outcome {
	case services.OutcomeUnknown:
		session.step = StepRegister
		session.form = RegistrationForm{Phone: phone}
		session.photo = input.Photo
	case services.OutcomeKnownUnverified:
		session.resolution = resolution
		session.photo = input.Photo
		session.step = StepVerification
	case services.OutcomeKnownVerified:
		session.resolution = resolution
		session.checkInID = record.ID
		session.photo = "" // 放行即释放采集数据
		session.form = RegistrationForm{}
		session.step = StepAdmitted
	default:
		return nil, fmt.Errorf("未知的解析结果: %s", resolution.Outcome)
	}
	return session.view(), nil
}

// RecordVerification 在 verification 步骤记录一次当前操作员的独立核验。
// 达到阈值后立即放行并写入到访记录。
func (e *Engine) RecordVerification(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	if session.step != StepVerification {
		session.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if session.resolution == nil || session.resolution.Visitor == nil {
		session.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	phone := session.resolution.Visitor.PhoneNumber
	operatorID := session.OperatorID
	establishmentID := session.EstablishmentID
	gateID := session.gate.ID
	photo := session.photo
	gen := session.generation
	session.mu.Unlock()

	status, err := e.faces.RecordVerification(ctx, phone, operatorID)
	if err != nil && !errors.Is(err, services.ErrVisitorAlreadyVerified) {
		return nil, err
	}
	if err != nil {
		// 已核验：补读状态，走放行分支
		status, err = e.faces.Status(ctx, phone)
		if err != nil {
			return nil, err
		}
	}

	var record *models.CheckInRecord
	if !status.NeedsVerification {
		record, err = e.checkIns.CreateCheckIn(ctx, services.CreateCheckInParams{
			Phone:           phone,
			GateID:          gateID,
			EstablishmentID: establishmentID,
			Photo:           photo,
			Status:          models.CheckInStatusAdmitted,
		})
		if err != nil {
			return nil, err
		}
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.generation != gen {
		return nil, ErrStaleAttempt
	}

	session.resolution = &services.Resolution{
		Outcome:           services.OutcomeKnownUnverified,
		Visitor:           status.Visitor,
		VerificationCount: status.VerificationCount,
		NeedsVerification: status.NeedsVerification,
		Remaining:         status.Remaining,
	}
	if !status.NeedsVerification {
		session.resolution.Outcome = services.OutcomeKnownVerified
		session.checkInID = record.ID
		session.photo = ""
		session.form = RegistrationForm{}
		session.step = StepAdmitted
	}
	return session.view(), nil
}

// SubmitRegistration 在 register 步骤提交新访客登记。
// 姓名、电话、受访人、照片四项均为必填；成功后进入待审批放行。
func (e *Engine) SubmitRegistration(ctx context.Context, sessionID string, form RegistrationForm) (*SessionView, error) {
	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	if session.step != StepRegister {
		session.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	if form.Photo == "" {
		// face 路径在进入登记前可能已采集过照片
		form.Photo = session.photo
	}
	establishmentID := session.EstablishmentID
	gateID := session.gate.ID
	gen := session.generation
	session.form = RegistrationForm{
		VisitorName: form.VisitorName,
		Phone:       form.Phone,
		ToMeet:      form.ToMeet,
	}
	session.mu.Unlock()

	if form.VisitorName == "" || form.Phone == "" || form.ToMeet == "" || form.Photo == "" {
		return nil, ErrRegistrationIncomplete
	}
	if err := utils.ValidatePhoneNumber(form.Phone); err != nil {
		return nil, err
	}

	firstName, lastName := splitVisitorName(form.VisitorName)
	if _, err := e.identity.RegisterVisitor(ctx, firstName, lastName, form.Phone); err != nil {
		return nil, err
	}

	record, err := e.checkIns.CreateCheckIn(ctx, services.CreateCheckInParams{
		Phone:           form.Phone,
		GateID:          gateID,
		EstablishmentID: establishmentID,
		VisitorName:     form.VisitorName,
		ToMeet:          form.ToMeet,
		Photo:           form.Photo,
		Status:          models.CheckInStatusPending,
	})
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.generation != gen {
		return nil, ErrStaleAttempt
	}
	session.checkInID = record.ID
	session.pending = true
	session.photo = ""
	session.form = RegistrationForm{}
	session.step = StepAdmitted
	return session.view(), nil
}

// Reset 从任意步骤回到 gate-selection，完整清空身份、照片与表单状态。
// 对应"换门禁/取消"操作；代次递增使尚未返回的异步结果全部失效。
func (e *Engine) Reset(sessionID string) (*SessionView, error) {
	session, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	session.generation++
	session.clearTransient()
	session.step = StepGateSelection
	return session.view(), nil
}

// splitVisitorName 将整名拆为名/姓两段，单段姓名归入 first name
func splitVisitorName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
