package geo

import "math"

// EarthRadiusMeters 是 Haversine 计算使用的地球平均半径（米）
const EarthRadiusMeters = 6371000.0

// Coordinate 表示一个十进制度数的经纬度坐标
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Distance 使用 Haversine 公式计算两个坐标之间的大圆距离（米）。
// 纯函数，无副作用；NaN 输入会按浮点语义传播。
func Distance(a, b Coordinate) float64 {
	latA := a.Latitude * math.Pi / 180
	latB := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}
