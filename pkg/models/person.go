// Package models holds the simple value types students build the
// simulation around.
package models

import (
	"math"

	"go.uber.org/zap"
)

// PersonState is a behavior state for a person in the simulation.
type PersonState string

const (
	// StateRandomWalk is the default wandering behavior.
	StateRandomWalk PersonState = "random_walk"
)

// Person represents one moving person in the city simulation.
type Person struct {
	ID         string
	Name       string
	Color      string
	X          float64
	Y          float64
	HeadingDeg float64
	State      PersonState
}

// Position returns the current position as (x, y).
func (p *Person) Position() (float64, float64) {
	return p.X, p.Y
}

// LogFields returns zap fields for readable log output.
func (p *Person) LogFields() []zap.Field {
	return []zap.Field{
		zap.String("person_id", p.ID),
		zap.String("name", p.Name),
		zap.String("color", p.Color),
		zap.Float64("x", round3(p.X)),
		zap.Float64("y", round3(p.Y)),
		zap.Float64("heading_deg", round2(normalizeHeading(p.HeadingDeg))),
		zap.String("state", string(p.State)),
	}
}

func normalizeHeading(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360.0)+360.0, 360.0)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
