// Package movement provides the pure math for the people simulation:
// Euclidean distances, random-walk steps, and rectangular boundary
// reflection. All functions are stateless; randomness comes from the
// caller's *rand.Rand so simulations stay reproducible under a seed.
package movement

import (
	"errors"
	"math"
	"math/rand"
)

// DistanceMeters returns the Euclidean distance in the simulation
// coordinate space.
func DistanceMeters(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// RandomWalkStep computes one random-walk step: the heading turns by a
// uniform random delta in [-maxTurnDeg, maxTurnDeg] and the position
// advances stepDistance along the new heading. Returns the new x, y, and
// heading in degrees.
func RandomWalkStep(x, y, headingDeg, stepDistance, maxTurnDeg float64, rng *rand.Rand) (float64, float64, float64) {
	turnDelta := (rng.Float64()*2 - 1) * maxTurnDeg
	newHeading := normalizeDeg(headingDeg + turnDelta)
	headingRad := newHeading * math.Pi / 180.0
	newX := x + stepDistance*math.Cos(headingRad)
	newY := y + stepDistance*math.Sin(headingRad)
	return newX, newY, newHeading
}

// ApplyBoundaryBounce reflects position and heading when a step crosses
// the rectangular bounds. The overshoot past a boundary is mirrored back
// inside, and the heading is reflected about the crossed axis.
func ApplyBoundaryBounce(x, y, headingDeg, minX, maxX, minY, maxY float64) (float64, float64, float64) {
	newX := x
	newY := y
	newHeading := normalizeDeg(headingDeg)

	if newX < minX {
		newX = minX + (minX - newX)
		newHeading = normalizeDeg(180.0 - newHeading)
	} else if newX > maxX {
		newX = maxX - (newX - maxX)
		newHeading = normalizeDeg(180.0 - newHeading)
	}

	if newY < minY {
		newY = minY + (minY - newY)
		newHeading = normalizeDeg(-newHeading)
	} else if newY > maxY {
		newY = maxY - (newY - maxY)
		newHeading = normalizeDeg(-newHeading)
	}

	return newX, newY, newHeading
}

// StepTowardTarget moves from (x, y) toward the target by up to
// stepDistance without overshooting. The boolean result reports arrival.
// A non-positive stepDistance is an error.
func StepTowardTarget(x, y, targetX, targetY, stepDistance float64) (float64, float64, bool, error) {
	if stepDistance <= 0 {
		return x, y, false, errors.New("step distance must be > 0")
	}
	dx := targetX - x
	dy := targetY - y
	distance := math.Hypot(dx, dy)
	if distance <= stepDistance {
		return targetX, targetY, true, nil
	}
	ratio := stepDistance / distance
	return x + dx*ratio, y + dy*ratio, false, nil
}

func normalizeDeg(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360.0)+360.0, 360.0)
}
