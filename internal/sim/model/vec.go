package model

import "math"

type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) ToArray() [2]float64 { return [2]float64{v.X, v.Y} }

func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
