package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simulated-city/simcity/pkg/cityerrors"
)

func loadSimulation(t *testing.T, body string) (*AppConfig, error) {
	t.Helper()
	t.Setenv(EnvActiveProfiles, "")
	path := writeConfig(t, t.TempDir(), body)
	return Load(path)
}

func TestSimulationSectionIsOptional(t *testing.T) {
	cfg, err := loadSimulation(t, "mqtt:\n  profile: local\n")
	require.NoError(t, err)
	assert.Nil(t, cfg.Simulation)
}

func TestSimulationDefaults(t *testing.T) {
	cfg, err := loadSimulation(t, `
simulation:
  timestep_minutes: 5
`)
	require.NoError(t, err)
	require.NotNil(t, cfg.Simulation)

	sim := cfg.Simulation
	assert.Equal(t, 5, sim.TimestepMinutes)
	assert.Equal(t, 0.25, sim.ArrivalProb)
	assert.Equal(t, 2, sim.BagFillDeltaPct)
	assert.Equal(t, 10, sim.StatusBoundaryPct)
	assert.False(t, sim.PublishEveryDeposit)
	assert.Equal(t, time.Duration(0), sim.StepDelay)
	assert.Nil(t, sim.StartTime)
	assert.Nil(t, sim.Seed)
	assert.Equal(t, 5, sim.PeopleCount)
	assert.Equal(t, DefaultNames, sim.Names)
	assert.Equal(t, DefaultColors, sim.Colors)
	assert.Equal(t, time.Second, sim.Movement.Tick)
	assert.Equal(t, 20, sim.Movement.TotalTicks)
	assert.Equal(t, 1.2, sim.Movement.StepDistanceM)
	assert.Equal(t, 45.0, sim.Movement.MaxTurnDeg)
	assert.Equal(t, "bounce", sim.Movement.BoundaryMode)
	assert.Equal(t, MapConfig{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100}, sim.Map)
}

func TestSimulationScalars(t *testing.T) {
	cfg, err := loadSimulation(t, `
simulation:
  arrival_prob: 0.5
  publish_every_deposit: true
  step_delay_s: 0.5
  seed: 1234
  people_count: 3
  start_time: "2024-06-01T08:00:00Z"
`)
	require.NoError(t, err)
	sim := cfg.Simulation

	assert.Equal(t, 0.5, sim.ArrivalProb)
	assert.True(t, sim.PublishEveryDeposit)
	assert.Equal(t, 500*time.Millisecond, sim.StepDelay)
	require.NotNil(t, sim.Seed)
	assert.Equal(t, int64(1234), *sim.Seed)
	assert.Equal(t, 3, sim.PeopleCount)
	require.NotNil(t, sim.StartTime)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), sim.StartTime.UTC())
}

func TestSimulationStartTimeWithoutZoneIsUTC(t *testing.T) {
	cfg, err := loadSimulation(t, `
simulation:
  start_time: "2024-06-01T08:00:00"
`)
	require.NoError(t, err)
	require.NotNil(t, cfg.Simulation.StartTime)
	assert.Equal(t, time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), cfg.Simulation.StartTime.UTC())
}

func TestSimulationMapBoundsNormalize(t *testing.T) {
	cfg, err := loadSimulation(t, `
simulation:
  map:
    min_x: 100
    max_x: 0
    min_y: 50
    max_y: -50
`)
	require.NoError(t, err)
	assert.Equal(t, MapConfig{MinX: 0, MaxX: 100, MinY: -50, MaxY: 50}, cfg.Simulation.Map)
}

func TestSimulationMovementValidation(t *testing.T) {
	t.Run("negative tick names the dotted key", func(t *testing.T) {
		_, err := loadSimulation(t, `
simulation:
  movement:
    tick_s: -1
`)
		require.Error(t, err)
		assert.True(t, cityerrors.IsType(err, cityerrors.ErrorTypeValidation))
		assert.Contains(t, err.Error(), "simulation.movement.tick_s")
	})

	t.Run("explicit zero total_ticks is rejected, not defaulted", func(t *testing.T) {
		_, err := loadSimulation(t, `
simulation:
  movement:
    total_ticks: 0
`)
		require.Error(t, err)
		assert.True(t, cityerrors.IsType(err, cityerrors.ErrorTypeValidation))
		assert.Contains(t, err.Error(), "simulation.movement.total_ticks must be > 0")
	})

	t.Run("turn angle above 180 is rejected", func(t *testing.T) {
		_, err := loadSimulation(t, `
simulation:
  movement:
    max_turn_deg: 270
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulation.movement.max_turn_deg")
	})

	t.Run("only bounce is a legal boundary mode", func(t *testing.T) {
		_, err := loadSimulation(t, `
simulation:
  movement:
    boundary_mode: wrap
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boundary_mode")
	})

	t.Run("boundary mode is case-normalized", func(t *testing.T) {
		cfg, err := loadSimulation(t, `
simulation:
  movement:
    boundary_mode: " Bounce "
`)
		require.NoError(t, err)
		assert.Equal(t, "bounce", cfg.Simulation.Movement.BoundaryMode)
	})

	t.Run("legacy movement key aliases are accepted", func(t *testing.T) {
		cfg, err := loadSimulation(t, `
simulation:
  movement:
    random_walk_step_m: 2.5
    random_walk_turn_deg_max: 15
`)
		require.NoError(t, err)
		assert.Equal(t, 2.5, cfg.Simulation.Movement.StepDistanceM)
		assert.Equal(t, 15.0, cfg.Simulation.Movement.MaxTurnDeg)
	})
}

func TestSimulationPeopleCountValidation(t *testing.T) {
	t.Run("explicit zero is rejected, not defaulted", func(t *testing.T) {
		_, err := loadSimulation(t, `
simulation:
  people_count: 0
`)
		require.Error(t, err)
		assert.True(t, cityerrors.IsType(err, cityerrors.ErrorTypeValidation))
		assert.Contains(t, err.Error(), "simulation.people_count must be > 0")
	})

	t.Run("negative is rejected", func(t *testing.T) {
		_, err := loadSimulation(t, `
simulation:
  num_people: -3
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulation.people_count must be > 0")
	})
}

func TestSimulationArrivalProbExplicitZero(t *testing.T) {
	// 0.0 is a meaningful probability (no arrivals), so an explicit zero
	// is honored rather than treated as absent.
	cfg, err := loadSimulation(t, `
simulation:
  arrival_prob: 0.0
`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Simulation.ArrivalProb)
}

func TestSimulationNamesAndColors(t *testing.T) {
	t.Run("custom lists are trimmed", func(t *testing.T) {
		cfg, err := loadSimulation(t, `
simulation:
  names: ["  Ada ", "", "Grace"]
  colors: [cyan]
`)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ada", "Grace"}, cfg.Simulation.Names)
		assert.Equal(t, []string{"cyan"}, cfg.Simulation.Colors)
	})

	t.Run("all-blank list falls back to defaults", func(t *testing.T) {
		cfg, err := loadSimulation(t, `
simulation:
  names: ["", "  "]
`)
		require.NoError(t, err)
		assert.Equal(t, DefaultNames, cfg.Simulation.Names)
	})
}

func TestSimulationLocations(t *testing.T) {
	t.Run("valid locations parse", func(t *testing.T) {
		cfg, err := loadSimulation(t, `
simulation:
  locations:
    - id: town-hall
      lat: 55.6761
      lon: 12.5683
    - location_id: harbour
      lat: 55.69
      lon: 12.60
`)
		require.NoError(t, err)
		require.Len(t, cfg.Simulation.Locations, 2)
		assert.Equal(t, LocationConfig{ID: "town-hall", Lat: 55.6761, Lon: 12.5683}, cfg.Simulation.Locations[0])
		assert.Equal(t, "harbour", cfg.Simulation.Locations[1].ID)
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		_, err := loadSimulation(t, `
simulation:
  locations:
    - lat: 1.0
      lon: 2.0
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id")
	})

	t.Run("missing coordinates are rejected", func(t *testing.T) {
		_, err := loadSimulation(t, `
simulation:
  locations:
    - id: nowhere
      lat: 1.0
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nowhere")
	})
}
