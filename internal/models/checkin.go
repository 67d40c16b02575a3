package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckInStatus 定义了到访记录的状态类型
type CheckInStatus string

const (
	// CheckInStatusPending 表示新访客注册后等待外部审批，尚未实际放行
	CheckInStatusPending CheckInStatus = "pending"
	// CheckInStatusAdmitted 表示访客已放行入场
	CheckInStatusAdmitted CheckInStatus = "admitted"
)

// CheckInRecord 对应于数据库中的 check_in_records 表。
// 生命周期：放行时创建；签退时写入 CheckOutTime；
// 撤销签退时清空 CheckOutTime；归档通过软删除隐藏记录。
// 未签退且未归档的记录视为"在场"，同一访客在同一场所至多存在一条。
type CheckInRecord struct {
	ID              string         `json:"id" gorm:"type:varchar(36);primaryKey"` // 使用 UUID 作为主键
	VisitorID       uint           `json:"visitorId" gorm:"column:visitor_id;not null;index"`
	GateID          uint           `json:"gateId" gorm:"column:gate_id;not null;index"`
	EstablishmentID uint           `json:"establishmentId" gorm:"column:establishment_id;not null;index"`
	VisitorName     string         `json:"visitorName" gorm:"column:visitor_name;not null;size:255"`
	PhoneNumber     string         `json:"phoneNumber" gorm:"column:phone_number;not null;size:50;index"`
	ToMeet          string         `json:"toMeet" gorm:"column:to_meet;size:255"` // 受访人
	Photo           string         `json:"-" gorm:"column:photo;type:text"`      // base64 现场照片，列表接口不回传
	Status          CheckInStatus  `json:"status" gorm:"column:status;type:varchar(20);not null;index"`
	CheckInTime     time.Time      `json:"checkInTime" gorm:"column:check_in_time;not null"`
	CheckOutTime    *time.Time     `json:"checkOutTime,omitempty" gorm:"column:check_out_time"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt       time.Time      `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index" swaggertype:"string" format:"date-time"`
}

// TableName 指定 CheckInRecord 模型对应的数据库表名
func (CheckInRecord) TableName() string {
	return "check_in_records"
}

// BeforeCreate GORM hook 为 CheckInRecord 生成 UUID
func (r *CheckInRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsOpen 判断记录是否仍在场（未签退）。归档记录已被软删除隐藏。
func (r *CheckInRecord) IsOpen() bool {
	return r.CheckOutTime == nil
}

// ActiveCheckInInfo 是重复签到冲突时回传给操作员的在场记录摘要
type ActiveCheckInInfo struct {
	CheckInID   string    `json:"checkinId"`
	VisitorName string    `json:"visitorName"`
	PhoneNumber string    `json:"phoneNumber"`
	GateID      uint      `json:"gateId"`
	CheckInTime time.Time `json:"checkInTime"` // 在场起始时间，用于提示"谁、从何时起"
}
