package mathx

import "math"

type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{X: a.X + b.X, Y: a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{X: a.X - b.X, Y: a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{X: a.X * s, Y: a.Y * s} }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }

func (a Vec2) DistanceTo(b Vec2) float64 { return b.Sub(a).Len() }

// DirectionTo returns the unit vector pointing from a to b, or zero when the
// points coincide.
func (a Vec2) DirectionTo(b Vec2) Vec2 {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return Vec2{}
	}
	return d.Scale(1 / l)
}

func AbsInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func MaxInt(a, b int) int {
	if a >= b {
		return a
	}
	return b
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
