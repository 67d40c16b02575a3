package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/visitor_management/configs"
	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/pkg/qrtoken"
	"github.com/visitor_management/pkg/utils"
)

// 身份解析相关的服务层错误
var (
	ErrInvalidQRTokenFormat = errors.New("二维码令牌格式无效")
	ErrQRPayloadUnknown     = errors.New("二维码载荷未对应任何访客")
)

// ResolutionOutcome 是身份解析的结果分类
type ResolutionOutcome string

const (
	// OutcomeUnknown 表示没有匹配的访客档案，进入新访客登记路径
	OutcomeUnknown ResolutionOutcome = "unknown"
	// OutcomeKnownUnverified 表示访客存在但人脸核验计数未达阈值
	OutcomeKnownUnverified ResolutionOutcome = "known_unverified"
	// OutcomeKnownVerified 表示访客已核验，可直接放行
	OutcomeKnownVerified ResolutionOutcome = "known_verified"
)

// Resolution 是一次身份解析的完整结果
type Resolution struct {
	Outcome           ResolutionOutcome `json:"outcome"`
	Visitor           *models.Visitor   `json:"visitor,omitempty"`
	VerificationCount int               `json:"verificationCount"`
	NeedsVerification bool              `json:"needsVerification"`
	Remaining         int               `json:"remaining"` // 距离核验阈值还差的次数
}

// IdentityService 定义了访客身份解析与重复签到检查的接口。
// 解析失败（数据库错误等）以 error 返回，调用方保持当前步骤不变，
// 由操作员显式重试。
type IdentityService interface {
	ResolveByPhone(ctx context.Context, phone string) (*Resolution, error)
	// ResolveByQRToken 校验令牌格式、提取载荷并解析访客身份。
	// 格式错误返回 ErrInvalidQRTokenFormat（对本次扫码是终态，需重新扫码）。
	ResolveByQRToken(ctx context.Context, token string) (*Resolution, error)
	// ResolvePhoneByQRPayload 实现 POST /qr/resolve 的权威反向查找
	ResolvePhoneByQRPayload(ctx context.Context, payload string) (string, error)
	// ActiveCheckIn 是重复签到守卫：返回该号码在指定场所的在场记录，无则返回 nil。
	// 任何解析路径在放行前都必须先调用它。
	ActiveCheckIn(ctx context.Context, phone string, establishmentID uint) (*models.CheckInRecord, error)
	// RegisterVisitor 创建新访客档案并派生其二维码载荷
	RegisterVisitor(ctx context.Context, firstName, lastName, phone string) (*models.Visitor, error)
	// IssueQRToken 为已有访客重新生成确定性的二维码令牌
	IssueQRToken(ctx context.Context, phone string) (string, error)
}

// identityService 是 IdentityService 的实现
type identityService struct {
	visitorRepo repositories.VisitorRepository
	checkInRepo repositories.CheckInRepository
	appConfig   *configs.Configuration
}

// NewIdentityService 创建一个新的 identityService 实例
func NewIdentityService(visitorRepo repositories.VisitorRepository, checkInRepo repositories.CheckInRepository) IdentityService {
	return &identityService{
		visitorRepo: visitorRepo,
		checkInRepo: checkInRepo,
		appConfig:   &configs.AppConfig,
	}
}

// resolutionFor 将访客档案折算为解析结果
func (s *identityService) resolutionFor(visitor *models.Visitor) *Resolution {
	threshold := s.appConfig.FaceVerificationThreshold
	remaining := threshold - visitor.VerificationCount
	if remaining < 0 {
		remaining = 0
	}

	outcome := OutcomeKnownVerified
	if visitor.NeedsVerification && visitor.VerificationCount < threshold {
		outcome = OutcomeKnownUnverified
	}

	return &Resolution{
		Outcome:           outcome,
		Visitor:           visitor,
		VerificationCount: visitor.VerificationCount,
		NeedsVerification: outcome == OutcomeKnownUnverified,
		Remaining:         remaining,
	}
}

func (s *identityService) ResolveByPhone(ctx context.Context, phone string) (*Resolution, error) {
	if err := utils.ValidatePhoneNumber(phone); err != nil {
		return nil, err
	}
	normalized := utils.NormalizePhoneNumber(phone)

	visitor, err := s.visitorRepo.FindByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			return &Resolution{Outcome: OutcomeUnknown}, nil
		}
		return nil, fmt.Errorf("查询访客档案失败: %w", err)
	}
	return s.resolutionFor(visitor), nil
}

func (s *identityService) ResolveByQRToken(ctx context.Context, token string) (*Resolution, error) {
	payload, ok := qrtoken.ExtractPayload(token)
	if !ok {
		return nil, ErrInvalidQRTokenFormat
	}

	visitor, err := s.visitorRepo.FindByQRPayload(ctx, payload)
	if err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			return &Resolution{Outcome: OutcomeUnknown}, nil
		}
		return nil, fmt.Errorf("二维码载荷查找失败: %w", err)
	}
	return s.resolutionFor(visitor), nil
}

func (s *identityService) ResolvePhoneByQRPayload(ctx context.Context, payload string) (string, error) {
	visitor, err := s.visitorRepo.FindByQRPayload(ctx, payload)
	if err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			return "", ErrQRPayloadUnknown
		}
		return "", fmt.Errorf("二维码载荷查找失败: %w", err)
	}
	return visitor.PhoneNumber, nil
}

func (s *identityService) ActiveCheckIn(ctx context.Context, phone string, establishmentID uint) (*models.CheckInRecord, error) {
	normalized := utils.NormalizePhoneNumber(phone)
	record, err := s.checkInRepo.FindOpenByPhone(ctx, normalized, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("查询在场记录失败: %w", err)
	}
	return record, nil
}

func (s *identityService) RegisterVisitor(ctx context.Context, firstName, lastName, phone string) (*models.Visitor, error) {
	if err := utils.ValidatePhoneNumber(phone); err != nil {
		return nil, err
	}
	normalized := utils.NormalizePhoneNumber(phone)

	visitor := &models.Visitor{
		FirstName:         firstName,
		LastName:          lastName,
		PhoneNumber:       normalized,
		NeedsVerification: true,
	}
	if err := s.visitorRepo.Create(ctx, visitor); err != nil {
		return nil, err
	}

	// 二维码载荷由访客主键确定性派生，创建后立即回填
	token := qrtoken.Encode(strconv.FormatUint(uint64(visitor.ID), 10), s.appConfig.QRTokenSecret)
	payload, _ := qrtoken.ExtractPayload(token)
	visitor.QRPayload = payload
	if err := s.visitorRepo.SaveQRPayload(ctx, visitor.ID, payload); err != nil {
		return nil, fmt.Errorf("保存二维码载荷失败: %w", err)
	}
	return visitor, nil
}

func (s *identityService) IssueQRToken(ctx context.Context, phone string) (string, error) {
	normalized := utils.NormalizePhoneNumber(phone)
	visitor, err := s.visitorRepo.FindByPhone(ctx, normalized)
	if err != nil {
		return "", err
	}
	return qrtoken.Encode(strconv.FormatUint(uint64(visitor.ID), 10), s.appConfig.QRTokenSecret), nil
}
