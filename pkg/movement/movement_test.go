package movement

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMeters(t *testing.T) {
	assert.Equal(t, 5.0, DistanceMeters(0, 0, 3, 4))
	assert.Equal(t, 0.0, DistanceMeters(2, 2, 2, 2))
	assert.InDelta(t, math.Sqrt2, DistanceMeters(-1, -1, 0, 0), 1e-12)
}

func TestRandomWalkStep(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	t.Run("step distance is preserved", func(t *testing.T) {
		x, y, _ := RandomWalkStep(10, 10, 90, 1.5, 45, rng)
		assert.InDelta(t, 1.5, DistanceMeters(10, 10, x, y), 1e-9)
	})

	t.Run("turn stays within the limit", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			_, _, heading := RandomWalkStep(0, 0, 0, 1, 30, rng)
			// New heading is 0 +/- 30 degrees, normalized to [0, 360).
			inRange := heading <= 30+1e-9 || heading >= 330-1e-9
			assert.True(t, inRange, "heading %f outside turn limit", heading)
		}
	})

	t.Run("zero turn keeps the heading", func(t *testing.T) {
		x, y, heading := RandomWalkStep(0, 0, 90, 2, 0, rng)
		assert.InDelta(t, 90.0, heading, 1e-9)
		assert.InDelta(t, 0.0, x, 1e-9)
		assert.InDelta(t, 2.0, y, 1e-9)
	})
}

func TestApplyBoundaryBounce(t *testing.T) {
	tests := []struct {
		name                string
		x, y, heading       float64
		wantX, wantY, wantH float64
	}{
		{"inside is unchanged", 50, 50, 45, 50, 50, 45},
		{"left overshoot reflects", -2, 50, 180, 2, 50, 0},
		{"right overshoot reflects", 103, 50, 0, 97, 50, 180},
		{"bottom overshoot reflects", 50, -5, 270, 50, 5, 90},
		{"top overshoot reflects", 50, 104, 90, 50, 96, 270},
		{"corner reflects both axes", -1, -1, 225, 1, 1, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, heading := ApplyBoundaryBounce(tt.x, tt.y, tt.heading, 0, 100, 0, 100)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
			assert.InDelta(t, tt.wantH, heading, 1e-9)
		})
	}
}

func TestStepTowardTarget(t *testing.T) {
	t.Run("arrives when target is within reach", func(t *testing.T) {
		x, y, arrived, err := StepTowardTarget(0, 0, 1, 1, 5)
		require.NoError(t, err)
		assert.True(t, arrived)
		assert.Equal(t, 1.0, x)
		assert.Equal(t, 1.0, y)
	})

	t.Run("moves partway without teleporting", func(t *testing.T) {
		x, y, arrived, err := StepTowardTarget(0, 0, 10, 0, 4)
		require.NoError(t, err)
		assert.False(t, arrived)
		assert.InDelta(t, 4.0, x, 1e-9)
		assert.InDelta(t, 0.0, y, 1e-9)
	})

	t.Run("rejects non-positive step distance", func(t *testing.T) {
		_, _, _, err := StepTowardTarget(0, 0, 1, 1, 0)
		require.Error(t, err)
	})
}
