package models

import (
	"time"

	"gorm.io/gorm"
)

// 员工角色
const (
	RoleAdmin = "admin" // 场所管理员，可管理门禁并查看全部访客记录
	RoleStaff = "staff" // 门岗员工，只能操作被授权的门禁
)

// User 对应于数据库中的 users 表，代表场所的员工账号（管理员或门岗操作员）
type User struct {
	ID              uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Username        string         `json:"username" gorm:"column:username;unique;not null;size:255"`
	PasswordHash    string         `json:"-" gorm:"column:password_hash;not null;size:255"` // 密码哈希不通过JSON暴露
	Role            string         `json:"role" gorm:"column:role;not null;default:'staff';size:50"`
	EstablishmentID uint           `json:"establishmentId" gorm:"column:establishment_id;not null;index"`
	CreatedAt       time.Time      `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt       time.Time      `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index" swaggertype:"string" format:"date-time"`
}

// TableName 指定 User 结构体对应的数据库表名
func (User) TableName() string {
	return "users"
}
