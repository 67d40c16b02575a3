package repositories

import (
	"context"
	"errors"

	"github.com/visitor_management/internal/models"
	"gorm.io/gorm"
)

// ErrGateNotFound 表示门禁未找到
var ErrGateNotFound = errors.New("门禁未找到")

// GateRepository 定义了门禁数据仓库的接口
type GateRepository interface {
	GetByID(ctx context.Context, gateID uint) (*models.Gate, error)
	FindByEstablishment(ctx context.Context, establishmentID uint) ([]models.Gate, error)
	// FindAuthorizedForUser 返回 gate_operators 映射授予该员工的门禁集合
	FindAuthorizedForUser(ctx context.Context, userID uint) ([]models.Gate, error)
	Create(ctx context.Context, gate *models.Gate) error
	Update(ctx context.Context, gate *models.Gate) error
	Delete(ctx context.Context, gateID uint) error
}

// gormGateRepository 是 GateRepository 的 GORM 实现
type gormGateRepository struct {
	db *gorm.DB
}

// NewGormGateRepository 创建一个新的 gormGateRepository 实例
func NewGormGateRepository(db *gorm.DB) GateRepository {
	return &gormGateRepository{db: db}
}

func (r *gormGateRepository) GetByID(ctx context.Context, gateID uint) (*models.Gate, error) {
	var gate models.Gate
	if err := r.db.WithContext(ctx).First(&gate, gateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGateNotFound
		}
		return nil, err
	}
	return &gate, nil
}

func (r *gormGateRepository) FindByEstablishment(ctx context.Context, establishmentID uint) ([]models.Gate, error) {
	var gates []models.Gate
	err := r.db.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		Order("id asc").
		Find(&gates).Error
	return gates, err
}

func (r *gormGateRepository) FindAuthorizedForUser(ctx context.Context, userID uint) ([]models.Gate, error) {
	var gates []models.Gate
	err := r.db.WithContext(ctx).
		Joins("JOIN gate_operators ON gate_operators.gate_id = gates.id AND gate_operators.deleted_at IS NULL").
		Where("gate_operators.user_id = ?", userID).
		Order("gates.id asc").
		Find(&gates).Error
	return gates, err
}

func (r *gormGateRepository) Create(ctx context.Context, gate *models.Gate) error {
	return r.db.WithContext(ctx).Create(gate).Error
}

func (r *gormGateRepository) Update(ctx context.Context, gate *models.Gate) error {
	// Save 会写入所有字段，保证关闭围栏时坐标列也被清空
	return r.db.WithContext(ctx).Save(gate).Error
}

func (r *gormGateRepository) Delete(ctx context.Context, gateID uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Gate{}, gateID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGateNotFound
	}
	return nil
}
