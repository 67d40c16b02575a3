package workflow

import "testing"

func TestStepValid(t *testing.T) {
	known := []Step{
		StepGateSelection, StepGeofenceCheck, StepMethodSelection,
		StepQR, StepPhone, StepFace, StepManual,
		StepVerification, StepRegister, StepAdmitted,
	}
	for _, s := range known {
		if !s.Valid() {
			t.Errorf("Step(%q).Valid() = false, 期望 true", s)
		}
	}
	for _, s := range []Step{"", "unknown", "Gate-Selection"} {
		if s.Valid() {
			t.Errorf("Step(%q).Valid() = true, 期望 false", s)
		}
	}
}

func TestStepIsMethodStep(t *testing.T) {
	for _, s := range []Step{StepQR, StepPhone, StepFace, StepManual} {
		if !s.IsMethodStep() {
			t.Errorf("Step(%q) 应为识别方式步骤", s)
		}
	}
	for _, s := range []Step{StepGateSelection, StepVerification, StepRegister, StepAdmitted} {
		if s.IsMethodStep() {
			t.Errorf("Step(%q) 不应为识别方式步骤", s)
		}
	}
}

func TestMethodStepFor(t *testing.T) {
	tests := []struct {
		method Method
		step   Step
	}{
		{MethodQR, StepQR},
		{MethodPhone, StepPhone},
		{MethodFace, StepFace},
		{MethodManual, StepManual},
	}
	for _, tt := range tests {
		step, err := tt.method.StepFor()
		if err != nil {
			t.Errorf("Method(%q).StepFor() 错误: %v", tt.method, err)
			continue
		}
		if step != tt.step {
			t.Errorf("Method(%q).StepFor() = %q, 期望 %q", tt.method, step, tt.step)
		}
	}

	if _, err := Method("fingerprint").StepFor(); err != ErrUnknownMethod {
		t.Errorf("未知方式应返回 ErrUnknownMethod, 实际 %v", err)
	}
}
