package geo

import (
	"math"
	"testing"
)

func TestDistanceIdentity(t *testing.T) {
	points := []Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 28.6139, Longitude: 77.2090},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 89.9, Longitude: -179.9},
	}
	for _, p := range points {
		if d := Distance(p, p); d != 0 {
			t.Errorf("Distance(%v, %v) = %v, 期望 0", p, p, d)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	a := Coordinate{Latitude: 28.6139, Longitude: 77.2090}
	b := Coordinate{Latitude: 28.7041, Longitude: 77.1025}
	d1 := Distance(a, b)
	d2 := Distance(b, a)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("距离不对称: Distance(a,b)=%v Distance(b,a)=%v", d1, d2)
	}
}

func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b Coordinate
		want float64 // 米
		tol  float64 // 允许的相对误差
	}{
		{
			// 赤道上经度差 1 度约为 111.19 公里
			name: "赤道一度经度",
			a:    Coordinate{Latitude: 0, Longitude: 0},
			b:    Coordinate{Latitude: 0, Longitude: 1},
			want: 111195,
			tol:  0.001,
		},
		{
			// 新德里康诺特广场到红堡，约 4.3 公里
			name: "德里市内",
			a:    Coordinate{Latitude: 28.6139, Longitude: 77.2090},
			b:    Coordinate{Latitude: 28.6562, Longitude: 77.2410},
			want: 5680,
			tol:  0.02,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want)/tt.want > tt.tol {
				t.Errorf("Distance = %v, 期望约 %v (容差 %v)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestDistanceNonNegative(t *testing.T) {
	a := Coordinate{Latitude: 51.5074, Longitude: -0.1278}
	b := Coordinate{Latitude: -51.5074, Longitude: 179.9}
	if d := Distance(a, b); d < 0 {
		t.Errorf("Distance = %v, 距离不应为负", d)
	}
}

func TestDistanceNaNPropagates(t *testing.T) {
	a := Coordinate{Latitude: math.NaN(), Longitude: 0}
	b := Coordinate{Latitude: 0, Longitude: 0}
	if d := Distance(a, b); !math.IsNaN(d) {
		t.Errorf("NaN 输入应传播 NaN, 实际得到 %v", d)
	}
}
