package models

import (
	"time"

	"gorm.io/gorm"
)

// Establishment 对应于数据库中的 establishments 表。
// 场所是门禁、部门与访客记录的归属租户。
type Establishment struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string         `json:"name" gorm:"column:name;not null;size:255"`
	Address   *string        `json:"address,omitempty" gorm:"column:address;size:500"`
	CreatedAt time.Time      `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index" swaggertype:"string" format:"date-time"`
}

// TableName 指定 Establishment 结构体对应的数据库表名
func (Establishment) TableName() string {
	return "establishments"
}
