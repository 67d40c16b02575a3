package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/services"
	"github.com/visitor_management/pkg/geo"
	"github.com/visitor_management/pkg/utils"
)

const testThreshold = 5

// fakeEnv 为工作流引擎测试提供全部协作方的内存假实现
type fakeEnv struct {
	gates          []models.Gate
	visitors       map[string]*models.Visitor // 归一化电话 → 访客
	payloadToPhone map[string]string
	open           map[string]*models.CheckInRecord // 归一化电话 → 在场记录
	created        []*models.CheckInRecord
	verifications  map[uint]map[uint]bool // visitorID → staffID 集合
	resolveCalls   int                    // ResolveByPhone 被调用的次数
	guardHook      func()                 // ActiveCheckIn 执行期间的回调，用于模拟并发重置
	nextVisitorID  uint
}

func newFakeEnv() *fakeEnv {
	lat, lng, radius := 28.6139, 77.2090, 50.0
	return &fakeEnv{
		gates: []models.Gate{
			{ID: 1, Name: "东门", EstablishmentID: 1, GeofencingEnabled: false},
			{ID: 2, Name: "正门", EstablishmentID: 1, GeofencingEnabled: true,
				Latitude: &lat, Longitude: &lng, RadiusMeters: &radius},
		},
		visitors:       make(map[string]*models.Visitor),
		payloadToPhone: make(map[string]string),
		open:           make(map[string]*models.CheckInRecord),
		verifications:  make(map[uint]map[uint]bool),
		nextVisitorID:  100,
	}
}

func (env *fakeEnv) addVisitor(phone string, count int, needsVerification bool) *models.Visitor {
	env.nextVisitorID++
	normalized := utils.NormalizePhoneNumber(phone)
	v := &models.Visitor{
		ID:                env.nextVisitorID,
		FirstName:         "测试",
		LastName:          "访客",
		PhoneNumber:       normalized,
		QRPayload:         fmt.Sprintf("%012X", env.nextVisitorID),
		VerificationCount: count,
		NeedsVerification: needsVerification,
	}
	env.visitors[normalized] = v
	env.payloadToPhone[v.QRPayload] = normalized
	return v
}

func (env *fakeEnv) addOpenCheckIn(phone string, name string) *models.CheckInRecord {
	normalized := utils.NormalizePhoneNumber(phone)
	rec := &models.CheckInRecord{
		ID:              fmt.Sprintf("open-%s", normalized),
		VisitorName:     name,
		PhoneNumber:     normalized,
		GateID:          1,
		EstablishmentID: 1,
		Status:          models.CheckInStatusAdmitted,
		CheckInTime:     time.Now().Add(-time.Hour),
	}
	env.open[normalized] = rec
	return rec
}

func (env *fakeEnv) resolutionFor(v *models.Visitor) *services.Resolution {
	remaining := testThreshold - v.VerificationCount
	if remaining < 0 {
		remaining = 0
	}
	outcome := services.OutcomeKnownVerified
	if v.NeedsVerification && v.VerificationCount < testThreshold {
		outcome = services.OutcomeKnownUnverified
	}
	return &services.Resolution{
		Outcome:           outcome,
		Visitor:           v,
		VerificationCount: v.VerificationCount,
		NeedsVerification: outcome == services.OutcomeKnownUnverified,
		Remaining:         remaining,
	}
}

// --- GateService ---

type fakeGates struct{ env *fakeEnv }

func (f *fakeGates) AuthorizedGates(ctx context.Context, user *models.User) ([]models.Gate, error) {
	return f.env.gates, nil
}
func (f *fakeGates) GetGateForEstablishment(ctx context.Context, gateID, establishmentID uint) (*models.Gate, error) {
	for i := range f.env.gates {
		if f.env.gates[i].ID == gateID {
			return &f.env.gates[i], nil
		}
	}
	return nil, errors.New("not found")
}
func (f *fakeGates) CreateGate(ctx context.Context, gate *models.Gate) error { return nil }
func (f *fakeGates) UpdateGate(ctx context.Context, gate *models.Gate) error { return nil }
func (f *fakeGates) DeleteGate(ctx context.Context, gateID, establishmentID uint) error {
	return nil
}

// --- IdentityService ---

type fakeIdentity struct{ env *fakeEnv }

func (f *fakeIdentity) ResolveByPhone(ctx context.Context, phone string) (*services.Resolution, error) {
	f.env.resolveCalls++
	v, ok := f.env.visitors[utils.NormalizePhoneNumber(phone)]
	if !ok {
		return &services.Resolution{Outcome: services.OutcomeUnknown}, nil
	}
	return f.env.resolutionFor(v), nil
}

func (f *fakeIdentity) ResolveByQRToken(ctx context.Context, token string) (*services.Resolution, error) {
	return nil, errors.New("引擎不应使用该入口")
}

func (f *fakeIdentity) ResolvePhoneByQRPayload(ctx context.Context, payload string) (string, error) {
	phone, ok := f.env.payloadToPhone[payload]
	if !ok {
		return "", services.ErrQRPayloadUnknown
	}
	return phone, nil
}

func (f *fakeIdentity) ActiveCheckIn(ctx context.Context, phone string, establishmentID uint) (*models.CheckInRecord, error) {
	if f.env.guardHook != nil {
		f.env.guardHook()
	}
	return f.env.open[utils.NormalizePhoneNumber(phone)], nil
}

func (f *fakeIdentity) RegisterVisitor(ctx context.Context, firstName, lastName, phone string) (*models.Visitor, error) {
	normalized := utils.NormalizePhoneNumber(phone)
	if _, exists := f.env.visitors[normalized]; exists {
		return nil, errors.New("访客已存在")
	}
	f.env.nextVisitorID++
	v := &models.Visitor{
		ID:                f.env.nextVisitorID,
		FirstName:         firstName,
		LastName:          lastName,
		PhoneNumber:       normalized,
		NeedsVerification: true,
	}
	f.env.visitors[normalized] = v
	return v, nil
}

func (f *fakeIdentity) IssueQRToken(ctx context.Context, phone string) (string, error) {
	return "LOGATOR-000000000000", nil
}

// --- FaceVerificationService ---

type fakeFaces struct{ env *fakeEnv }

func (f *fakeFaces) statusFor(v *models.Visitor) *services.FaceVerificationStatus {
	remaining := testThreshold - v.VerificationCount
	if remaining < 0 {
		remaining = 0
	}
	return &services.FaceVerificationStatus{
		Visitor:           v,
		VerificationCount: v.VerificationCount,
		NeedsVerification: v.NeedsVerification && v.VerificationCount < testThreshold,
		Remaining:         remaining,
	}
}

func (f *fakeFaces) Status(ctx context.Context, phone string) (*services.FaceVerificationStatus, error) {
	v, ok := f.env.visitors[utils.NormalizePhoneNumber(phone)]
	if !ok {
		return nil, errors.New("访客未找到")
	}
	return f.statusFor(v), nil
}

func (f *fakeFaces) RecordVerification(ctx context.Context, phone string, staffUserID uint) (*services.FaceVerificationStatus, error) {
	v, ok := f.env.visitors[utils.NormalizePhoneNumber(phone)]
	if !ok {
		return nil, errors.New("访客未找到")
	}
	if !v.NeedsVerification {
		return nil, services.ErrVisitorAlreadyVerified
	}
	staffSet := f.env.verifications[v.ID]
	if staffSet == nil {
		staffSet = make(map[uint]bool)
		f.env.verifications[v.ID] = staffSet
	}
	staffSet[staffUserID] = true
	v.VerificationCount = len(staffSet)
	if v.VerificationCount >= testThreshold {
		v.NeedsVerification = false
	}
	return f.statusFor(v), nil
}

// --- CheckInService ---

type fakeCheckIns struct{ env *fakeEnv }

func (f *fakeCheckIns) CreateCheckIn(ctx context.Context, params services.CreateCheckInParams) (*models.CheckInRecord, error) {
	normalized := utils.NormalizePhoneNumber(params.Phone)
	if f.env.open[normalized] != nil {
		return nil, services.ErrDuplicateActiveCheckIn
	}
	status := params.Status
	if status == "" {
		status = models.CheckInStatusAdmitted
	}
	rec := &models.CheckInRecord{
		ID:              fmt.Sprintf("rec-%d", len(f.env.created)+1),
		PhoneNumber:     normalized,
		GateID:          params.GateID,
		EstablishmentID: params.EstablishmentID,
		VisitorName:     params.VisitorName,
		ToMeet:          params.ToMeet,
		Photo:           params.Photo,
		Status:          status,
		CheckInTime:     time.Now(),
	}
	f.env.created = append(f.env.created, rec)
	f.env.open[normalized] = rec
	return rec, nil
}

func (f *fakeCheckIns) CheckOut(ctx context.Context, id string, establishmentID uint) (*models.CheckInRecord, error) {
	return nil, errors.New("未实现")
}
func (f *fakeCheckIns) ReverseCheckOut(ctx context.Context, id string, establishmentID uint) (*models.CheckInRecord, error) {
	return nil, errors.New("未实现")
}
func (f *fakeCheckIns) Archive(ctx context.Context, id string, establishmentID uint) error {
	return errors.New("未实现")
}
func (f *fakeCheckIns) List(ctx context.Context, establishmentID uint, status string, page, limit int) ([]models.CheckInRecord, int64, error) {
	return nil, 0, errors.New("未实现")
}

func newTestEngine(env *fakeEnv) *Engine {
	return NewEngine(
		NewSessionStore(),
		&fakeGates{env: env},
		&fakeIdentity{env: env},
		&fakeFaces{env: env},
		&fakeCheckIns{env: env},
	)
}

func testOperator() *models.User {
	return &models.User{ID: 10, Username: "gatekeeper", Role: models.RoleStaff, EstablishmentID: 1}
}

func startSession(t *testing.T, e *Engine) *SessionView {
	t.Helper()
	view, err := e.StartSession(context.Background(), testOperator())
	if err != nil {
		t.Fatalf("StartSession 失败: %v", err)
	}
	if view.Step != StepGateSelection {
		t.Fatalf("初始步骤 = %s, 期望 %s", view.Step, StepGateSelection)
	}
	return view
}

// 场景A：门禁未开启围栏，选择后直接进入 method-selection
func TestGeofencingDisabledSkipsGeofenceStep(t *testing.T) {
	env := newFakeEnv()
	e := newTestEngine(env)
	view := startSession(t, e)

	view, err := e.SelectGate(view.ID, 1, nil)
	if err != nil {
		t.Fatalf("SelectGate 失败: %v", err)
	}
	if view.Step != StepMethodSelection {
		t.Errorf("步骤 = %s, 期望 %s", view.Step, StepMethodSelection)
	}
}

// 场景B：位置在半径外，进入 geofence-check 并报告距离与半径；换门禁回到 gate-selection
func TestGeofenceDeniedReportsDistance(t *testing.T) {
	env := newFakeEnv()
	e := newTestEngine(env)
	view := startSession(t, e)

	pos := &geo.Coordinate{Latitude: 28.6139 + 1000.0/111195.0, Longitude: 77.2090}
	view, err := e.SelectGate(view.ID, 2, pos)
	if err != nil {
		t.Fatalf("SelectGate 失败: %v", err)
	}
	if view.Step != StepGeofenceCheck {
		t.Fatalf("步骤 = %s, 期望 %s", view.Step, StepGeofenceCheck)
	}
	if view.Proximity == nil {
		t.Fatal("拒绝时必须携带围栏判定结果")
	}
	if view.Proximity.DistanceMeters < 990 || view.Proximity.DistanceMeters > 1010 {
		t.Errorf("DistanceMeters = %v, 期望约 1000 (±1%%)", view.Proximity.DistanceMeters)
	}
	if view.Proximity.RadiusMeters != 50 {
		t.Errorf("RadiusMeters = %v, 期望 50", view.Proximity.RadiusMeters)
	}

	// 换门禁：完整重置回 gate-selection
	view, err = e.Reset(view.ID)
	if err != nil {
		t.Fatalf("Reset 失败: %v", err)
	}
	if view.Step != StepGateSelection {
		t.Errorf("步骤 = %s, 期望 %s", view.Step, StepGateSelection)
	}
	if view.Gate != nil || view.Proximity != nil {
		t.Error("重置后门禁与围栏状态应被清空")
	}
}

// 围栏重试：先被拒，再用圆心位置重试通过
func TestGeofenceRetrySucceeds(t *testing.T) {
	env := newFakeEnv()
	e := newTestEngine(env)
	view := startSession(t, e)

	view, err := e.SelectGate(view.ID, 2, nil)
	if err != nil {
		t.Fatalf("SelectGate 失败: %v", err)
	}
	if view.Step != StepGeofenceCheck {
		t.Fatalf("步骤 = %s, 期望 %s", view.Step, StepGeofenceCheck)
	}
	if view.Proximity.Reason != ReasonLocationUnavailable {
		t.Errorf("缺失位置的拒绝原因 = %s, 期望 %s", view.Proximity.Reason, ReasonLocationUnavailable)
	}

	view, err = e.RetryProximity(view.ID, &geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090})
	if err != nil {
		t.Fatalf("RetryProximity 失败: %v", err)
	}
	if view.Step != StepMethodSelection {
		t.Errorf("重试通过后步骤 = %s, 期望 %s", view.Step, StepMethodSelection)
	}
}

// 重复签到守卫：同一电话在 qr/phone/manual 路径都被拦截，且不触发身份解析
func TestDuplicateGuardBlocksEveryMethod(t *testing.T) {
	const phone = "+91 9999999999"

	methodInputs := []struct {
		method Method
		input  func(env *fakeEnv) ResolveInput
	}{
		{MethodPhone, func(env *fakeEnv) ResolveInput { return ResolveInput{Phone: phone} }},
		{MethodManual, func(env *fakeEnv) ResolveInput { return ResolveInput{Phone: phone} }},
		{MethodQR, func(env *fakeEnv) ResolveInput {
			v := env.visitors[utils.NormalizePhoneNumber(phone)]
			return ResolveInput{QRToken: "LOGATOR-" + v.QRPayload}
		}},
	}

	for _, tt := range methodInputs {
		t.Run(string(tt.method), func(t *testing.T) {
			env := newFakeEnv()
			env.addVisitor(phone, testThreshold, false)
			env.addOpenCheckIn(phone, "张三")
			e := newTestEngine(env)
			view := startSession(t, e)

			view, _ = e.SelectGate(view.ID, 1, nil)
			view, err := e.ChooseMethod(view.ID, tt.method)
			if err != nil {
				t.Fatalf("ChooseMethod 失败: %v", err)
			}
			methodStep := view.Step

			view, err = e.Resolve(context.Background(), view.ID, tt.input(env))
			if err != nil {
				t.Fatalf("Resolve 失败: %v", err)
			}
			if view.Conflict == nil {
				t.Fatal("应返回重复签到冲突")
			}
			if view.Conflict.VisitorName != "张三" {
				t.Errorf("冲突记录访客 = %s, 期望 张三", view.Conflict.VisitorName)
			}
			if view.Step != methodStep {
				t.Errorf("冲突后步骤 = %s, 应停留在 %s 等待操作员处置", view.Step, methodStep)
			}
			if env.resolveCalls != 0 {
				t.Errorf("守卫命中时不应继续身份解析, 实际调用 %d 次", env.resolveCalls)
			}
			if len(env.created) != 0 {
				t.Error("冲突时不得创建新的到访记录")
			}
		})
	}
}

// 已核验访客直接放行
func TestKnownVerifiedAdmitsImmediately(t *testing.T) {
	env := newFakeEnv()
	env.addVisitor("+91 8888888888", testThreshold, false)
	e := newTestEngine(env)
	view := startSession(t, e)

	view, _ = e.SelectGate(view.ID, 1, nil)
	view, _ = e.ChooseMethod(view.ID, MethodPhone)
	view, err := e.Resolve(context.Background(), view.ID, ResolveInput{Phone: "+91 8888888888"})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if view.Step != StepAdmitted {
		t.Fatalf("步骤 = %s, 期望 %s", view.Step, StepAdmitted)
	}
	if view.CheckInID == "" {
		t.Error("放行后应携带到访记录ID")
	}
	if view.PendingApproval {
		t.Error("已核验访客的放行不应是待审批状态")
	}
	if len(env.created) != 1 || env.created[0].Status != models.CheckInStatusAdmitted {
		t.Errorf("应创建一条 admitted 记录, 实际: %+v", env.created)
	}
}

// 计数=4 的访客进入 verification，剩余1次；再核验一次后放行
func TestVerificationThresholdGating(t *testing.T) {
	env := newFakeEnv()
	v := env.addVisitor("+91 7777777777", 4, true)
	// 预置4名其他员工的核验记录
	env.verifications[v.ID] = map[uint]bool{1: true, 2: true, 3: true, 4: true}
	e := newTestEngine(env)
	view := startSession(t, e)

	view, _ = e.SelectGate(view.ID, 1, nil)
	view, _ = e.ChooseMethod(view.ID, MethodFace)
	view, err := e.Resolve(context.Background(), view.ID, ResolveInput{Phone: "+91 7777777777", Photo: "img-data"})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if view.Step != StepVerification {
		t.Fatalf("步骤 = %s, 期望 %s", view.Step, StepVerification)
	}
	if view.Resolution.Remaining != 1 {
		t.Errorf("Remaining = %d, 期望 1", view.Resolution.Remaining)
	}
	if !view.Resolution.NeedsVerification {
		t.Error("计数未达阈值时 NeedsVerification 应为 true")
	}

	// 当前操作员（ID=10）完成第5次独立核验
	view, err = e.RecordVerification(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("RecordVerification 失败: %v", err)
	}
	if view.Step != StepAdmitted {
		t.Fatalf("达到阈值后步骤 = %s, 期望 %s", view.Step, StepAdmitted)
	}
	if view.Resolution.NeedsVerification {
		t.Error("达到阈值后 NeedsVerification 应为 false")
	}
	if v.NeedsVerification {
		t.Error("访客档案的 needs_verification 应已关闭（单向转换）")
	}
	if len(env.created) != 1 {
		t.Errorf("应创建一条到访记录, 实际 %d 条", len(env.created))
	}
}

// 同一操作员重复核验不增加计数
func TestVerificationSameStaffNotDoubleCounted(t *testing.T) {
	env := newFakeEnv()
	env.addVisitor("+91 6666666666", 0, true)
	e := newTestEngine(env)
	view := startSession(t, e)

	view, _ = e.SelectGate(view.ID, 1, nil)
	view, _ = e.ChooseMethod(view.ID, MethodPhone)
	view, _ = e.Resolve(context.Background(), view.ID, ResolveInput{Phone: "+91 6666666666"})
	if view.Step != StepVerification {
		t.Fatalf("步骤 = %s, 期望 %s", view.Step, StepVerification)
	}

	view, err := e.RecordVerification(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("第一次核验失败: %v", err)
	}
	first := view.Resolution.VerificationCount

	view, err = e.RecordVerification(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("重复核验失败: %v", err)
	}
	if view.Resolution.VerificationCount != first {
		t.Errorf("同一操作员重复核验后计数 = %d, 期望保持 %d", view.Resolution.VerificationCount, first)
	}
}

// 场景C：未知电话进入 register，提交四项后转入待审批放行
func TestUnknownVisitorRegistration(t *testing.T) {
	env := newFakeEnv()
	e := newTestEngine(env)
	view := startSession(t, e)

	view, _ = e.SelectGate(view.ID, 1, nil)
	view, _ = e.ChooseMethod(view.ID, MethodPhone)
	view, err := e.Resolve(context.Background(), view.ID, ResolveInput{Phone: "+91 1234567890"})
	if err != nil {
		t.Fatalf("Resolve 失败: %v", err)
	}
	if view.Step != StepRegister {
		t.Fatalf("步骤 = %s, 期望 %s", view.Step, StepRegister)
	}
	if view.Form == nil || view.Form.Phone != "+91 1234567890" {
		t.Errorf("登记表单应预填解析用的电话, 实际: %+v", view.Form)
	}

	// 缺照片时拒绝提交
	_, err = e.SubmitRegistration(context.Background(), view.ID, RegistrationForm{
		VisitorName: "Alice", Phone: "+91 1234567890", ToMeet: "Bob",
	})
	if !errors.Is(err, ErrRegistrationIncomplete) {
		t.Errorf("缺照片应返回 ErrRegistrationIncomplete, 实际 %v", err)
	}

	view, err = e.SubmitRegistration(context.Background(), view.ID, RegistrationForm{
		VisitorName: "Alice", Phone: "+91 1234567890", ToMeet: "Bob", Photo: "captured",
	})
	if err != nil {
		t.Fatalf("SubmitRegistration 失败: %v", err)
	}
	if view.Step != StepAdmitted {
		t.Fatalf("步骤 = %s, 期望 %s", view.Step, StepAdmitted)
	}
	if !view.PendingApproval {
		t.Error("新访客放行应为待审批状态")
	}
	if len(env.created) != 1 || env.created[0].Status != models.CheckInStatusPending {
		t.Errorf("应创建一条 pending 记录, 实际: %+v", env.created)
	}
	if env.visitors[utils.NormalizePhoneNumber("+91 1234567890")] == nil {
		t.Error("登记应创建访客档案")
	}
}

// 二维码格式错误对本次扫描是终态错误，步骤保持不变
func TestInvalidQRTokenFormat(t *testing.T) {
	env := newFakeEnv()
	e := newTestEngine(env)
	view := startSession(t, e)

	view, _ = e.SelectGate(view.ID, 1, nil)
	view, _ = e.ChooseMethod(view.ID, MethodQR)

	_, err := e.Resolve(context.Background(), view.ID, ResolveInput{QRToken: "LOGATOR-abcdef123456"})
	if !errors.Is(err, services.ErrInvalidQRTokenFormat) {
		t.Errorf("小写载荷应返回格式错误, 实际 %v", err)
	}

	snapshot, _ := e.Snapshot(view.ID)
	if snapshot.Step != StepQR {
		t.Errorf("格式错误后步骤 = %s, 应保持 %s", snapshot.Step, StepQR)
	}
}

// 任意状态重置：清空身份、照片与表单，回到 gate-selection
func TestResetClearsAllTransientState(t *testing.T) {
	env := newFakeEnv()
	e := newTestEngine(env)
	view := startSession(t, e)

	view, _ = e.SelectGate(view.ID, 1, nil)
	view, _ = e.ChooseMethod(view.ID, MethodFace)
	view, _ = e.Resolve(context.Background(), view.ID, ResolveInput{Phone: "+91 1234509876", Photo: "captured"})
	if view.Step != StepRegister {
		t.Fatalf("步骤 = %s, 期望 %s", view.Step, StepRegister)
	}

	view, err := e.Reset(view.ID)
	if err != nil {
		t.Fatalf("Reset 失败: %v", err)
	}
	if view.Step != StepGateSelection {
		t.Errorf("步骤 = %s, 期望 %s", view.Step, StepGateSelection)
	}
	if view.Gate != nil || view.Resolution != nil || view.Conflict != nil || view.Form != nil || view.CheckInID != "" {
		t.Errorf("重置后临时状态未清空: %+v", view)
	}

	session, err := e.store.Get(view.ID)
	if err != nil {
		t.Fatalf("取会话失败: %v", err)
	}
	session.mu.Lock()
	if session.photo != "" {
		t.Error("重置后照片数据应被清空")
	}
	session.mu.Unlock()
}

// 会话在网络调用期间被重置时，迟到的结果必须被丢弃
func TestStaleAttemptDiscarded(t *testing.T) {
	env := newFakeEnv()
	env.addVisitor("+91 5555555555", testThreshold, false)
	e := newTestEngine(env)
	view := startSession(t, e)

	view, _ = e.SelectGate(view.ID, 1, nil)
	view, _ = e.ChooseMethod(view.ID, MethodPhone)

	// 守卫执行期间操作员重置了工作流
	env.guardHook = func() {
		env.guardHook = nil
		if _, err := e.Reset(view.ID); err != nil {
			t.Fatalf("并发 Reset 失败: %v", err)
		}
	}

	_, err := e.Resolve(context.Background(), view.ID, ResolveInput{Phone: "+91 5555555555"})
	if !errors.Is(err, ErrStaleAttempt) {
		t.Fatalf("期望 ErrStaleAttempt, 实际 %v", err)
	}

	snapshot, _ := e.Snapshot(view.ID)
	if snapshot.Step != StepGateSelection {
		t.Errorf("迟到结果不得改变重置后的状态, 步骤 = %s", snapshot.Step)
	}
	if snapshot.Resolution != nil || snapshot.CheckInID != "" {
		t.Error("迟到结果不得写入新尝试的状态")
	}
}

// 非法转换：封闭步骤类型下所有越步操作都被显式拒绝
func TestInvalidTransitionsRejected(t *testing.T) {
	env := newFakeEnv()
	e := newTestEngine(env)
	view := startSession(t, e)

	if _, err := e.ChooseMethod(view.ID, MethodPhone); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("gate-selection 下选择方式应被拒绝, 实际 %v", err)
	}
	if _, err := e.Resolve(context.Background(), view.ID, ResolveInput{Phone: "+91 1234567890"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("gate-selection 下解析应被拒绝, 实际 %v", err)
	}
	if _, err := e.RetryProximity(view.ID, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("gate-selection 下围栏重试应被拒绝, 实际 %v", err)
	}
	if _, err := e.SelectGate(view.ID, 99, nil); !errors.Is(err, ErrGateNotAuthorized) {
		t.Errorf("越权门禁应被拒绝, 实际 %v", err)
	}

	if _, err := e.Snapshot("no-such-session"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("不存在的会话应返回 ErrSessionNotFound, 实际 %v", err)
	}
}
