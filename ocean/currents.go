package ocean

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/seine/config"
	"github.com/pthm-cable/seine/grid"
)

// Currents samples a surface current vector that drifts smoothly from day to day.
type Currents struct {
	u, v      opensimplex.Noise
	scale     float64
	timeScale float64
	maxSpeed  float64
}

// NewCurrents creates a current field from two independent 3D noise sources.
func NewCurrents(c config.OceanConfig, seed int64) *Currents {
	return &Currents{
		u:         opensimplex.New(seed + 1),
		v:         opensimplex.New(seed + 2),
		scale:     c.NoiseScale,
		timeScale: c.CurrentTimeScale,
		maxSpeed:  c.CurrentMaxSpeed,
	}
}

// Vector returns the (u, v) current in m/s at a cell on a given day.
func (cu *Currents) Vector(c grid.Cell, step int) (u, v float64) {
	x := float64(c.X) * cu.scale
	y := float64(c.Y) * cu.scale
	t := float64(step) * cu.timeScale
	return cu.u.Eval3(x, y, t) * cu.maxSpeed, cu.v.Eval3(x, y, t) * cu.maxSpeed
}

// CurrentSpeed returns the current magnitude in m/s.
func (cu *Currents) CurrentSpeed(c grid.Cell, step int) float64 {
	u, v := cu.Vector(c, step)
	return math.Hypot(u, v)
}

// StillWater is an environment with no current anywhere.
type StillWater struct{}

// CurrentSpeed always returns 0.
func (StillWater) CurrentSpeed(grid.Cell, int) float64 { return 0 }

// UniformCurrent has the same speed everywhere.
type UniformCurrent float64

// CurrentSpeed returns the fixed speed.
func (u UniformCurrent) CurrentSpeed(grid.Cell, int) float64 { return float64(u) }
