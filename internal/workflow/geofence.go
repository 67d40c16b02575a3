package workflow

import (
	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/pkg/geo"
)

// ProximityReason 说明地理围栏判定的结果类别
type ProximityReason string

const (
	// ReasonAllowed 表示允许通行（围栏关闭或在半径内）
	ReasonAllowed ProximityReason = "allowed"
	// ReasonOutOfRange 表示当前位置超出门禁授权半径
	ReasonOutOfRange ProximityReason = "out_of_range"
	// ReasonLocationUnavailable 表示定位不可用（权限被拒或设备无定位），
	// 操作员应开启定位服务或改选未开启围栏的门禁
	ReasonLocationUnavailable ProximityReason = "location_unavailable"
)

// ProximityResult 是一次地理围栏校验的结果。
// 拒绝时必须同时给出计算距离与要求半径，让操作员了解差距。
type ProximityResult struct {
	Allowed        bool            `json:"allowed"`
	Reason         ProximityReason `json:"reason"`
	DistanceMeters float64         `json:"distanceMeters,omitempty"`
	RadiusMeters   float64         `json:"radiusMeters,omitempty"`
}

// CheckProximity 判定当前位置是否在门禁的授权半径内。
// 门禁未开启围栏时始终允许；位置缺失按拒绝处理并给出独立的原因。
func CheckProximity(pos *geo.Coordinate, gate *models.Gate) ProximityResult {
	if !gate.GeofencingEnabled {
		return ProximityResult{Allowed: true, Reason: ReasonAllowed}
	}

	// 创建/更新侧保证了开启围栏的门禁必有中心与半径
	radius := *gate.RadiusMeters
	if pos == nil {
		return ProximityResult{
			Allowed:      false,
			Reason:       ReasonLocationUnavailable,
			RadiusMeters: radius,
		}
	}

	center := geo.Coordinate{Latitude: *gate.Latitude, Longitude: *gate.Longitude}
	distance := geo.Distance(*pos, center)
	if distance <= radius {
		return ProximityResult{
			Allowed:        true,
			Reason:         ReasonAllowed,
			DistanceMeters: distance,
			RadiusMeters:   radius,
		}
	}
	return ProximityResult{
		Allowed:        false,
		Reason:         ReasonOutOfRange,
		DistanceMeters: distance,
		RadiusMeters:   radius,
	}
}
