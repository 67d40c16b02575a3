package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/visitor_management/internal/models"
	"gorm.io/gorm"
)

// ErrCheckInNotFound 表示到访记录未找到
var ErrCheckInNotFound = errors.New("到访记录未找到")

// CheckInRepository 定义了到访记录数据仓库的接口
type CheckInRepository interface {
	GetByID(ctx context.Context, id string) (*models.CheckInRecord, error)
	// FindOpenByPhone 查找该电话号码在指定场所的在场记录（未签退且未归档）。
	// 未找到时返回 (nil, nil)，调用方据此判断是否存在重复签到冲突。
	FindOpenByPhone(ctx context.Context, phone string, establishmentID uint) (*models.CheckInRecord, error)
	Create(ctx context.Context, record *models.CheckInRecord) error
	// SetCheckOut 写入签退时间
	SetCheckOut(ctx context.Context, id string, at time.Time) error
	// ClearCheckOut 撤销签退，清空签退时间使记录恢复在场状态
	ClearCheckOut(ctx context.Context, id string) error
	// Archive 软删除记录，归档后的记录对在场查询不可见
	Archive(ctx context.Context, id string) error
	List(ctx context.Context, establishmentID uint, status string, page, limit int) ([]models.CheckInRecord, int64, error)
}

// gormCheckInRepository 是 CheckInRepository 的 GORM 实现
type gormCheckInRepository struct {
	db *gorm.DB
}

// NewGormCheckInRepository 创建一个新的 gormCheckInRepository 实例
func NewGormCheckInRepository(db *gorm.DB) CheckInRepository {
	return &gormCheckInRepository{db: db}
}

func (r *gormCheckInRepository) GetByID(ctx context.Context, id string) (*models.CheckInRecord, error) {
	var record models.CheckInRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *gormCheckInRepository) FindOpenByPhone(ctx context.Context, phone string, establishmentID uint) (*models.CheckInRecord, error) {
	var record models.CheckInRecord
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND establishment_id = ? AND check_out_time IS NULL", phone, establishmentID).
		Order("check_in_time desc").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *gormCheckInRepository) Create(ctx context.Context, record *models.CheckInRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormCheckInRepository) SetCheckOut(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.CheckInRecord{}).
		Where("id = ? AND check_out_time IS NULL", id).
		Update("check_out_time", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCheckInNotFound
	}
	return nil
}

func (r *gormCheckInRepository) ClearCheckOut(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.CheckInRecord{}).
		Where("id = ? AND check_out_time IS NOT NULL", id).
		Update("check_out_time", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCheckInNotFound
	}
	return nil
}

func (r *gormCheckInRepository) Archive(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CheckInRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCheckInNotFound
	}
	return nil
}

func (r *gormCheckInRepository) List(ctx context.Context, establishmentID uint, status string, page, limit int) ([]models.CheckInRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CheckInRecord{}).
		Where("establishment_id = ?", establishmentID)

	switch status {
	case "open":
		query = query.Where("check_out_time IS NULL")
	case "checked_out":
		query = query.Where("check_out_time IS NOT NULL")
	case "pending":
		query = query.Where("status = ?", models.CheckInStatusPending)
	case "":
		// 不过滤
	default:
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var records []models.CheckInRecord
	err := query.Order("check_in_time desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}
