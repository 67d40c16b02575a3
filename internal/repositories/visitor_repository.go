package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/visitor_management/internal/models"
	"gorm.io/gorm"
)

// ErrVisitorNotFound 表示访客档案未找到
var ErrVisitorNotFound = errors.New("访客未找到")

// ErrVisitorPhoneExists 表示该电话号码已存在访客档案
var ErrVisitorPhoneExists = errors.New("该电话号码已存在访客档案")

// ErrVerificationAlreadyCounted 表示同一员工已核验过该访客，本次不重复计数
var ErrVerificationAlreadyCounted = errors.New("该员工已核验过此访客")

// VisitorRepository 定义了访客档案数据仓库的接口
type VisitorRepository interface {
	GetByID(ctx context.Context, visitorID uint) (*models.Visitor, error)
	FindByPhone(ctx context.Context, phone string) (*models.Visitor, error)
	// FindByQRPayload 完成 二维码载荷→访客 的权威反向查找
	FindByQRPayload(ctx context.Context, payload string) (*models.Visitor, error)
	Create(ctx context.Context, visitor *models.Visitor) error
	// CreateVerification 插入一条 (访客, 员工) 核验日志；组合已存在时返回
	// ErrVerificationAlreadyCounted，保证重复提交不会使计数翻倍
	CreateVerification(ctx context.Context, visitorID, staffUserID uint) error
	// CountVerifications 服务端重新统计核验日志行数，绝不信任客户端计数
	CountVerifications(ctx context.Context, visitorID uint) (int, error)
	// UpdateVerificationState 持久化最新计数；markVerified 为 true 时一并
	// 关闭 needs_verification 标志（单向转换）
	UpdateVerificationState(ctx context.Context, visitorID uint, count int, markVerified bool) error
	// SaveQRPayload 回填由访客主键派生的二维码载荷
	SaveQRPayload(ctx context.Context, visitorID uint, payload string) error
}

// gormVisitorRepository 是 VisitorRepository 的 GORM 实现
type gormVisitorRepository struct {
	db *gorm.DB
}

// NewGormVisitorRepository 创建一个新的 gormVisitorRepository 实例
func NewGormVisitorRepository(db *gorm.DB) VisitorRepository {
	return &gormVisitorRepository{db: db}
}

func (r *gormVisitorRepository) GetByID(ctx context.Context, visitorID uint) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := r.db.WithContext(ctx).First(&visitor, visitorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

func (r *gormVisitorRepository) FindByPhone(ctx context.Context, phone string) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&visitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

func (r *gormVisitorRepository) FindByQRPayload(ctx context.Context, payload string) (*models.Visitor, error) {
	var visitor models.Visitor
	if err := r.db.WithContext(ctx).Where("qr_payload = ?", payload).First(&visitor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}
	return &visitor, nil
}

func (r *gormVisitorRepository) Create(ctx context.Context, visitor *models.Visitor) error {
	// 预先检查电话号码是否已存在（包括软删除的记录，防止恢复时冲突）
	var existing models.Visitor
	err := r.db.WithContext(ctx).Unscoped().
		Where("phone_number = ?", visitor.PhoneNumber).First(&existing).Error
	if err == nil {
		return ErrVisitorPhoneExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Create(visitor).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return ErrVisitorPhoneExists
		}
		return err
	}
	return nil
}

func (r *gormVisitorRepository) CreateVerification(ctx context.Context, visitorID, staffUserID uint) error {
	verification := &models.FaceVerification{
		VisitorID:   visitorID,
		StaffUserID: staffUserID,
	}
	if err := r.db.WithContext(ctx).Create(verification).Error; err != nil {
		// (visitor_id, staff_user_id) 唯一索引保证同一员工只计一次
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return ErrVerificationAlreadyCounted
		}
		return err
	}
	return nil
}

func (r *gormVisitorRepository) CountVerifications(ctx context.Context, visitorID uint) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FaceVerification{}).
		Where("visitor_id = ?", visitorID).
		Count(&count).Error
	return int(count), err
}

func (r *gormVisitorRepository) SaveQRPayload(ctx context.Context, visitorID uint, payload string) error {
	return r.db.WithContext(ctx).Model(&models.Visitor{}).
		Where("id = ?", visitorID).
		Update("qr_payload", payload).Error
}

func (r *gormVisitorRepository) UpdateVerificationState(ctx context.Context, visitorID uint, count int, markVerified bool) error {
	updates := map[string]interface{}{
		"verification_count": count,
	}
	if markVerified {
		updates["needs_verification"] = false
	}
	return r.db.WithContext(ctx).Model(&models.Visitor{}).
		Where("id = ?", visitorID).
		Updates(updates).Error
}
