package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/visitor_management/configs"
	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/pkg/utils"
)

// ErrVisitorAlreadyVerified 表示访客已通过核验，无需再次计数
var ErrVisitorAlreadyVerified = errors.New("访客已通过人脸核验")

// FaceVerificationStatus 是访客人脸核验策略的当前状态
type FaceVerificationStatus struct {
	Visitor           *models.Visitor `json:"user"`
	VerificationCount int             `json:"verificationCount"`
	NeedsVerification bool            `json:"needsVerification"`
	Remaining         int             `json:"remaining"` // max(0, 阈值 - 计数)
}

// FaceVerificationService 定义了人脸核验计数策略的接口。
// 计数始终在服务端通过重新统计核验日志得出并回读，
// 客户端重试不可能造成重复计数。
type FaceVerificationService interface {
	Status(ctx context.Context, phone string) (*FaceVerificationStatus, error)
	// RecordVerification 记录一次员工对访客的独立核验并返回回读后的最新状态。
	// 同一员工对同一访客只计一次；计数达到阈值后 needs_verification
	// 单向置为 false。
	RecordVerification(ctx context.Context, phone string, staffUserID uint) (*FaceVerificationStatus, error)
}

// faceVerificationService 是 FaceVerificationService 的实现
type faceVerificationService struct {
	visitorRepo repositories.VisitorRepository
	appConfig   *configs.Configuration
}

// NewFaceVerificationService 创建一个新的 faceVerificationService 实例
func NewFaceVerificationService(visitorRepo repositories.VisitorRepository) FaceVerificationService {
	return &faceVerificationService{
		visitorRepo: visitorRepo,
		appConfig:   &configs.AppConfig,
	}
}

func (s *faceVerificationService) statusFor(visitor *models.Visitor) *FaceVerificationStatus {
	threshold := s.appConfig.FaceVerificationThreshold
	remaining := threshold - visitor.VerificationCount
	if remaining < 0 {
		remaining = 0
	}
	return &FaceVerificationStatus{
		Visitor:           visitor,
		VerificationCount: visitor.VerificationCount,
		NeedsVerification: visitor.NeedsVerification && visitor.VerificationCount < threshold,
		Remaining:         remaining,
	}
}

func (s *faceVerificationService) Status(ctx context.Context, phone string) (*FaceVerificationStatus, error) {
	normalized := utils.NormalizePhoneNumber(phone)
	visitor, err := s.visitorRepo.FindByPhone(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return s.statusFor(visitor), nil
}

func (s *faceVerificationService) RecordVerification(ctx context.Context, phone string, staffUserID uint) (*FaceVerificationStatus, error) {
	normalized := utils.NormalizePhoneNumber(phone)
	visitor, err := s.visitorRepo.FindByPhone(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !visitor.NeedsVerification {
		return nil, ErrVisitorAlreadyVerified
	}

	// 插入核验日志；同一员工重复核验不算错误，也不增加计数
	if err := s.visitorRepo.CreateVerification(ctx, visitor.ID, staffUserID); err != nil {
		if !errors.Is(err, repositories.ErrVerificationAlreadyCounted) {
			return nil, fmt.Errorf("记录核验失败: %w", err)
		}
	}

	// 服务端重新统计，刷新访客状态后回读
	count, err := s.visitorRepo.CountVerifications(ctx, visitor.ID)
	if err != nil {
		return nil, fmt.Errorf("统计核验次数失败: %w", err)
	}
	markVerified := count >= s.appConfig.FaceVerificationThreshold
	if err := s.visitorRepo.UpdateVerificationState(ctx, visitor.ID, count, markVerified); err != nil {
		return nil, fmt.Errorf("更新核验状态失败: %w", err)
	}

	fresh, err := s.visitorRepo.GetByID(ctx, visitor.ID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(fresh), nil
}
