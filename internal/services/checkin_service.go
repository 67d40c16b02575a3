package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/internal/repositories"
	"github.com/visitor_management/pkg/utils"
)

// 到访记录相关的服务层错误
var (
	// ErrDuplicateActiveCheckIn 表示该访客在此场所已有未签退的到访记录。
	// 硬性业务不变量：同一访客在同一场所不能同时持有两条在场记录。
	ErrDuplicateActiveCheckIn = errors.New("该访客已有未签退的到访记录")
	ErrAlreadyCheckedOut      = errors.New("该到访记录已签退")
	ErrNotCheckedOut          = errors.New("该到访记录尚未签退，无法撤销签退")
)

// CreateCheckInParams 是创建到访记录的参数
type CreateCheckInParams struct {
	Phone           string
	GateID          uint
	EstablishmentID uint
	VisitorName     string
	ToMeet          string
	Photo           string
	Status          models.CheckInStatus
}

// CheckInService 定义了到访记录服务的接口
type CheckInService interface {
	CreateCheckIn(ctx context.Context, params CreateCheckInParams) (*models.CheckInRecord, error)
	CheckOut(ctx context.Context, id string, establishmentID uint) (*models.CheckInRecord, error)
	// ReverseCheckOut 清空签退时间，使记录恢复在场状态
	ReverseCheckOut(ctx context.Context, id string, establishmentID uint) (*models.CheckInRecord, error)
	// Archive 软删除记录，归档后对在场查询不可见
	Archive(ctx context.Context, id string, establishmentID uint) error
	List(ctx context.Context, establishmentID uint, status string, page, limit int) ([]models.CheckInRecord, int64, error)
}

// checkInService 是 CheckInService 的实现
type checkInService struct {
	checkInRepo repositories.CheckInRepository
	visitorRepo repositories.VisitorRepository
	gateRepo    repositories.GateRepository
}

// NewCheckInService 创建一个新的 checkInService 实例
func NewCheckInService(checkInRepo repositories.CheckInRepository, visitorRepo repositories.VisitorRepository, gateRepo repositories.GateRepository) CheckInService {
	return &checkInService{
		checkInRepo: checkInRepo,
		visitorRepo: visitorRepo,
		gateRepo:    gateRepo,
	}
}

func (s *checkInService) CreateCheckIn(ctx context.Context, params CreateCheckInParams) (*models.CheckInRecord, error) {
	if err := utils.ValidatePhoneNumber(params.Phone); err != nil {
		return nil, err
	}
	normalized := utils.NormalizePhoneNumber(params.Phone)

	gate, err := s.gateRepo.GetByID(ctx, params.GateID)
	if err != nil {
		return nil, err
	}
	if gate.EstablishmentID != params.EstablishmentID {
		return nil, ErrGateNotInEstablishment
	}

	visitor, err := s.visitorRepo.FindByPhone(ctx, normalized)
	if err != nil {
		return nil, err
	}

	// 放行前最后一道重复签到防线；工作流各方法路径已检查过一次，
	// 这里在写入侧再次执行以保证不变量不被绕过
	open, err := s.checkInRepo.FindOpenByPhone(ctx, normalized, params.EstablishmentID)
	if err != nil {
		return nil, fmt.Errorf("查询在场记录失败: %w", err)
	}
	if open != nil {
		return nil, ErrDuplicateActiveCheckIn
	}

	status := params.Status
	if status == "" {
		status = models.CheckInStatusAdmitted
	}
	name := params.VisitorName
	if name == "" {
		name = visitor.FullName()
	}

	record := &models.CheckInRecord{
		VisitorID:       visitor.ID,
		GateID:          gate.ID,
		EstablishmentID: params.EstablishmentID,
		VisitorName:     name,
		PhoneNumber:     normalized,
		ToMeet:          params.ToMeet,
		Photo:           params.Photo,
		Status:          status,
		CheckInTime:     time.Now(),
	}
	if err := s.checkInRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("创建到访记录失败: %w", err)
	}
	return record, nil
}

// getForEstablishment 取出记录并校验归属场所
func (s *checkInService) getForEstablishment(ctx context.Context, id string, establishmentID uint) (*models.CheckInRecord, error) {
	record, err := s.checkInRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.EstablishmentID != establishmentID {
		return nil, repositories.ErrCheckInNotFound
	}
	return record, nil
}

func (s *checkInService) CheckOut(ctx context.Context, id string, establishmentID uint) (*models.CheckInRecord, error) {
	record, err := s.getForEstablishment(ctx, id, establishmentID)
	if err != nil {
		return nil, err
	}
	if record.CheckOutTime != nil {
		return nil, ErrAlreadyCheckedOut
	}
	if err := s.checkInRepo.SetCheckOut(ctx, id, time.Now()); err != nil {
		return nil, err
	}
	return s.checkInRepo.GetByID(ctx, id)
}

func (s *checkInService) ReverseCheckOut(ctx context.Context, id string, establishmentID uint) (*models.CheckInRecord, error) {
	record, err := s.getForEstablishment(ctx, id, establishmentID)
	if err != nil {
		return nil, err
	}
	if record.CheckOutTime == nil {
		return nil, ErrNotCheckedOut
	}

	// 撤销签退会使记录恢复在场，先确认不会违反单一在场不变量
	open, err := s.checkInRepo.FindOpenByPhone(ctx, record.PhoneNumber, establishmentID)
	if err != nil {
		return nil, fmt.Errorf("查询在场记录失败: %w", err)
	}
	if open != nil {
		return nil, ErrDuplicateActiveCheckIn
	}

	if err := s.checkInRepo.ClearCheckOut(ctx, id); err != nil {
		return nil, err
	}
	return s.checkInRepo.GetByID(ctx, id)
}

func (s *checkInService) Archive(ctx context.Context, id string, establishmentID uint) error {
	if _, err := s.getForEstablishment(ctx, id, establishmentID); err != nil {
		return err
	}
	return s.checkInRepo.Archive(ctx, id)
}

func (s *checkInService) List(ctx context.Context, establishmentID uint, status string, page, limit int) ([]models.CheckInRecord, int64, error) {
	return s.checkInRepo.List(ctx, establishmentID, status, page, limit)
}
