package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/pkg/utils"
)

// ErrGateNotInEstablishment 表示门禁不属于操作员所在的场所
var ErrGateNotInEstablishment = errors.New("门禁不属于当前场所")

// GateService 定义了门禁服务的接口
type GateService interface {
	// AuthorizedGates 返回员工本次会话可操作的门禁集合。
	// 管理员可见场所全部门禁；门岗员工按 gate_operators 映射过滤，
	// 未配置任何映射的员工视为不受限，可见场所全部门禁。
	AuthorizedGates(ctx context.Context, user *models.User) ([]models.Gate, error)
	// GetGateForEstablishment 取出门禁并校验其归属场所
	GetGateForEstablishment(ctx context.Context, gateID, establishmentID uint) (*models.Gate, error)
	CreateGate(ctx context.Context, gate *models.Gate) error
	UpdateGate(ctx context.Context, gate *models.Gate) error
	DeleteGate(ctx context.Context, gateID, establishmentID uint) error
}

// gateService 是 GateService 的实现
type gateService struct {
	gateRepo repositories.GateRepository
}

// NewGateService 创建一个新的 gateService 实例
func NewGateService(gateRepo repositories.GateRepository) GateService {
	return &gateService{gateRepo: gateRepo}
}

func (s *gateService) AuthorizedGates(ctx context.Context, user *models.User) ([]models.Gate, error) {
	if user.Role == models.RoleAdmin {
		return s.gateRepo.FindByEstablishment(ctx, user.EstablishmentID)
	}

	gates, err := s.gateRepo.FindAuthorizedForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("查询授权门禁失败: %w", err)
	}
	if len(gates) == 0 {
		return s.gateRepo.FindByEstablishment(ctx, user.EstablishmentID)
	}

	// 映射表可能包含其他场所的残留数据，按场所过滤一遍
	filtered := make([]models.Gate, 0, len(gates))
	for _, g := range gates {
		if g.EstablishmentID == user.EstablishmentID {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

func (s *gateService) GetGateForEstablishment(ctx context.Context, gateID, establishmentID uint) (*models.Gate, error) {
	gate, err := s.gateRepo.GetByID(ctx, gateID)
	if err != nil {
		return nil, err
	}
	if gate.EstablishmentID != establishmentID {
		return nil, ErrGateNotInEstablishment
	}
	return gate, nil
}

// validateGate 校验地理围栏不变量与坐标取值范围
func validateGate(gate *models.Gate) error {
	if err := gate.ValidateGeofence(); err != nil {
		return err
	}
	if gate.GeofencingEnabled {
		if err := utils.ValidateCoordinate(*gate.Latitude, *gate.Longitude); err != nil {
			return err
		}
	}
	return nil
}

func (s *gateService) CreateGate(ctx context.Context, gate *models.Gate) error {
	if err := validateGate(gate); err != nil {
		return err
	}
	return s.gateRepo.Create(ctx, gate)
}

func (s *gateService) UpdateGate(ctx context.Context, gate *models.Gate) error {
	existing, err := s.gateRepo.GetByID(ctx, gate.ID)
	if err != nil {
		return err
	}
	if existing.EstablishmentID != gate.EstablishmentID {
		return ErrGateNotInEstablishment
	}
	if err := validateGate(gate); err != nil {
		return err
	}
	return s.gateRepo.Update(ctx, gate)
}

func (s *gateService) DeleteGate(ctx context.Context, gateID, establishmentID uint) error {
	existing, err := s.gateRepo.GetByID(ctx, gateID)
	if err != nil {
		return err
	}
	if existing.EstablishmentID != establishmentID {
		return ErrGateNotInEstablishment
	}
	return s.gateRepo.Delete(ctx, gateID)
}
