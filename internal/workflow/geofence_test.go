package workflow

import (
	"math"
	"testing"

	"github.com/visitor_management/internal/models"
	"github.com/visitor_management/pkg/geo"
)

func geofencedGate(lat, lng, radius float64) *models.Gate {
	return &models.Gate{
		ID:                1,
		Name:              "正门",
		EstablishmentID:   1,
		GeofencingEnabled: true,
		Latitude:          &lat,
		Longitude:         &lng,
		RadiusMeters:      &radius,
	}
}

func TestCheckProximityDisabledGate(t *testing.T) {
	gate := &models.Gate{ID: 2, Name: "侧门", EstablishmentID: 1, GeofencingEnabled: false}
	result := CheckProximity(nil, gate)
	if !result.Allowed {
		t.Error("未开启围栏的门禁应始终允许")
	}
	if result.Reason != ReasonAllowed {
		t.Errorf("Reason = %s, 期望 %s", result.Reason, ReasonAllowed)
	}
}

func TestCheckProximityAtCenter(t *testing.T) {
	gate := geofencedGate(28.6139, 77.2090, 50)
	pos := &geo.Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	result := CheckProximity(pos, gate)
	if !result.Allowed {
		t.Errorf("圆心位置应允许通行, 结果: %+v", result)
	}
	if result.DistanceMeters != 0 {
		t.Errorf("圆心距离 = %v, 期望 0", result.DistanceMeters)
	}
}

func TestCheckProximityOutOfRange(t *testing.T) {
	gate := geofencedGate(28.6139, 77.2090, 50)
	// 向北偏移约 1000 米
	pos := &geo.Coordinate{Latitude: 28.6139 + 1000.0/111195.0, Longitude: 77.2090}
	result := CheckProximity(pos, gate)
	if result.Allowed {
		t.Fatalf("半径外位置不应允许通行, 结果: %+v", result)
	}
	if result.Reason != ReasonOutOfRange {
		t.Errorf("Reason = %s, 期望 %s", result.Reason, ReasonOutOfRange)
	}
	// 拒绝时必须同时报告计算距离与要求半径
	if math.Abs(result.DistanceMeters-1000) > 10 {
		t.Errorf("DistanceMeters = %v, 期望约 1000 (±1%%)", result.DistanceMeters)
	}
	if result.RadiusMeters != 50 {
		t.Errorf("RadiusMeters = %v, 期望 50", result.RadiusMeters)
	}
}

func TestCheckProximityBoundary(t *testing.T) {
	gate := geofencedGate(28.6139, 77.2090, 1001)
	pos := &geo.Coordinate{Latitude: 28.6139 + 1000.0/111195.0, Longitude: 77.2090}
	if result := CheckProximity(pos, gate); !result.Allowed {
		t.Errorf("半径内位置应允许通行, 结果: %+v", result)
	}
}

func TestCheckProximityLocationUnavailable(t *testing.T) {
	gate := geofencedGate(28.6139, 77.2090, 50)
	result := CheckProximity(nil, gate)
	if result.Allowed {
		t.Fatal("缺失位置应按拒绝处理")
	}
	if result.Reason != ReasonLocationUnavailable {
		t.Errorf("Reason = %s, 期望 %s (与超出半径的拒绝区分开)", result.Reason, ReasonLocationUnavailable)
	}
	if result.RadiusMeters != 50 {
		t.Errorf("RadiusMeters = %v, 期望 50", result.RadiusMeters)
	}
}
