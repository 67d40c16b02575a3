package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrGeofenceIncomplete 表示开启了地理围栏但缺少中心坐标或有效半径
var ErrGeofenceIncomplete = errors.New("开启地理围栏时必须提供中心坐标和大于0的半径")

// Gate 对应于数据库中的 gates 表，代表场所的一个命名物理入口。
// 不变量：GeofencingEnabled 为 true 时，Latitude/Longitude/RadiusMeters 必须非空且半径大于0。
type Gate struct {
	ID                uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name              string         `json:"name" gorm:"column:name;not null;size:255"`
	EstablishmentID   uint           `json:"establishmentId" gorm:"column:establishment_id;not null;index"`
	GeofencingEnabled bool           `json:"geofencingEnabled" gorm:"column:geofencing_enabled;not null;default:false"`
	Latitude          *float64       `json:"latitude,omitempty" gorm:"column:latitude"`
	Longitude         *float64       `json:"longitude,omitempty" gorm:"column:longitude"`
	RadiusMeters      *float64       `json:"radiusMeters,omitempty" gorm:"column:radius_meters"`
	CreatedAt         time.Time      `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt         time.Time      `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index" swaggertype:"string" format:"date-time"`
}

// TableName 指定 Gate 结构体对应的数据库表名
func (Gate) TableName() string {
	return "gates"
}

// ValidateGeofence 校验地理围栏不变量。
// 创建和更新门禁时都必须通过该校验，工作流只读使用 Gate。
func (g *Gate) ValidateGeofence() error {
	if !g.GeofencingEnabled {
		return nil
	}
	if g.Latitude == nil || g.Longitude == nil || g.RadiusMeters == nil {
		return ErrGeofenceIncomplete
	}
	if *g.RadiusMeters <= 0 {
		return ErrGeofenceIncomplete
	}
	return nil
}

// GateOperator 对应于 gate_operators 表，维护门岗员工与可操作门禁的映射。
// 一个员工会话的授权门禁集合（AuthorizedGateSet）由该映射在会话创建时一次性取出。
type GateOperator struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	GateID    uint           `json:"gateId" gorm:"column:gate_id;not null;index:idx_gate_operator,unique"`
	UserID    uint           `json:"userId" gorm:"column:user_id;not null;index:idx_gate_operator,unique"`
	CreatedAt time.Time      `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	DeletedAt gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index" swaggertype:"string" format:"date-time"`
}

// TableName 指定 GateOperator 结构体对应的数据库表名
func (GateOperator) TableName() string {
	return "gate_operators"
}
