package config

import (
	"strings"
	"time"

	"github.com/simulated-city/simcity/pkg/cityerrors"
)

// parseSimulation parses the optional simulation: section. A missing or
// empty section yields nil (the template can be used without simulation).
// Validation failures name the offending dotted key.
func parseSimulation(raw interface{}) (*SimulationConfig, error) {
	if raw == nil {
		return nil, nil
	}
	section, ok := raw.(map[string]interface{})
	if !ok {
		return nil, cityerrors.New(cityerrors.ErrorTypeConfig, "config key 'simulation' must be a mapping")
	}

	cfg := defaultSimulationConfig()

	var err error
	if cfg.TimestepMinutes, err = toIntDefault(section["timestep_minutes"], cfg.TimestepMinutes, "simulation.timestep_minutes"); err != nil {
		return nil, err
	}
	if cfg.ArrivalProb, err = toFloatDefault(section["arrival_prob"], cfg.ArrivalProb, "simulation.arrival_prob"); err != nil {
		return nil, err
	}
	if cfg.BagFillDeltaPct, err = toIntDefault(section["bag_fill_delta_pct"], cfg.BagFillDeltaPct, "simulation.bag_fill_delta_pct"); err != nil {
		return nil, err
	}
	if cfg.StatusBoundaryPct, err = toIntDefault(section["status_boundary_pct"], cfg.StatusBoundaryPct, "simulation.status_boundary_pct"); err != nil {
		return nil, err
	}
	cfg.PublishEveryDeposit = toBool(section["publish_every_deposit"])

	// Optional wall-clock delay between timesteps (useful for broker testing).
	stepDelayRaw := section["step_delay_s"]
	if stepDelayRaw == nil {
		stepDelayRaw = section["step_delay_seconds"]
	}
	if stepDelayRaw != nil {
		seconds, err := toFloat(stepDelayRaw, "simulation.step_delay_s")
		if err != nil {
			return nil, err
		}
		cfg.StepDelay = time.Duration(seconds * float64(time.Second))
	}

	if startRaw := section["start_time"]; startRaw != nil {
		start, err := parseUTCTime(startRaw)
		if err != nil {
			return nil, err
		}
		cfg.StartTime = &start
	}

	if seedRaw := section["seed"]; seedRaw != nil {
		seed, err := toInt(seedRaw, "simulation.seed")
		if err != nil {
			return nil, err
		}
		seed64 := int64(seed)
		cfg.Seed = &seed64
	}

	peopleRaw := section["people_count"]
	if peopleRaw == nil {
		peopleRaw = section["num_people"]
	}
	if cfg.PeopleCount, err = toIntKeepZero(peopleRaw, cfg.PeopleCount, "simulation.people_count"); err != nil {
		return nil, err
	}
	if err := ensurePositiveInt(cfg.PeopleCount, "simulation.people_count"); err != nil {
		return nil, err
	}

	if cfg.Movement, err = parseMovement(section["movement"]); err != nil {
		return nil, err
	}
	if cfg.Map, err = parseMap(section["map"]); err != nil {
		return nil, err
	}

	if cfg.Names, err = parseStringList(section["names"], DefaultNames, "simulation.names"); err != nil {
		return nil, err
	}
	if cfg.Colors, err = parseStringList(section["colors"], DefaultColors, "simulation.colors"); err != nil {
		return nil, err
	}

	if cfg.Locations, err = parseLocations(section["locations"]); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func parseMovement(raw interface{}) (MovementConfig, error) {
	cfg := defaultSimulationConfig().Movement
	if raw == nil {
		return cfg, nil
	}
	section, ok := raw.(map[string]interface{})
	if !ok {
		return MovementConfig{}, cityerrors.New(cityerrors.ErrorTypeConfig, "config key 'simulation.movement' must be a mapping")
	}

	if tickRaw := section["tick_s"]; tickRaw != nil {
		seconds, err := toFloat(tickRaw, "simulation.movement.tick_s")
		if err != nil {
			return MovementConfig{}, err
		}
		if seconds <= 0 {
			return MovementConfig{}, cityerrors.New(cityerrors.ErrorTypeValidation, "simulation.movement.tick_s must be > 0")
		}
		cfg.Tick = time.Duration(seconds * float64(time.Second))
	}

	var err error
	if cfg.TotalTicks, err = toIntKeepZero(section["total_ticks"], cfg.TotalTicks, "simulation.movement.total_ticks"); err != nil {
		return MovementConfig{}, err
	}
	if err := ensurePositiveInt(cfg.TotalTicks, "simulation.movement.total_ticks"); err != nil {
		return MovementConfig{}, err
	}

	stepRaw := section["step_distance_m"]
	if stepRaw == nil {
		stepRaw = section["random_walk_step_m"]
	}
	if cfg.StepDistanceM, err = toFloatDefault(stepRaw, cfg.StepDistanceM, "simulation.movement.step_distance_m"); err != nil {
		return MovementConfig{}, err
	}
	if cfg.StepDistanceM <= 0 {
		return MovementConfig{}, cityerrors.New(cityerrors.ErrorTypeValidation, "simulation.movement.step_distance_m must be > 0")
	}

	turnRaw := section["max_turn_deg"]
	if turnRaw == nil {
		turnRaw = section["random_walk_turn_deg_max"]
	}
	if cfg.MaxTurnDeg, err = toFloatDefault(turnRaw, cfg.MaxTurnDeg, "simulation.movement.max_turn_deg"); err != nil {
		return MovementConfig{}, err
	}
	if cfg.MaxTurnDeg < 0 || cfg.MaxTurnDeg > 180 {
		return MovementConfig{}, cityerrors.New(cityerrors.ErrorTypeValidation, "simulation.movement.max_turn_deg must be between 0 and 180")
	}

	mode := strings.ToLower(strings.TrimSpace(toStringDefault(section["boundary_mode"], cfg.BoundaryMode)))
	if mode != "bounce" {
		return MovementConfig{}, cityerrors.New(cityerrors.ErrorTypeValidation, "simulation.movement.boundary_mode must be 'bounce'")
	}
	cfg.BoundaryMode = mode

	return cfg, nil
}

func parseMap(raw interface{}) (MapConfig, error) {
	cfg := defaultSimulationConfig().Map
	if raw == nil {
		return cfg, nil
	}
	section, ok := raw.(map[string]interface{})
	if !ok {
		return MapConfig{}, cityerrors.New(cityerrors.ErrorTypeConfig, "config key 'simulation.map' must be a mapping")
	}

	var err error
	if cfg.MinX, err = toFloatDefault(section["min_x"], cfg.MinX, "simulation.map.min_x"); err != nil {
		return MapConfig{}, err
	}
	if cfg.MaxX, err = toFloatDefault(section["max_x"], cfg.MaxX, "simulation.map.max_x"); err != nil {
		return MapConfig{}, err
	}
	if cfg.MinY, err = toFloatDefault(section["min_y"], cfg.MinY, "simulation.map.min_y"); err != nil {
		return MapConfig{}, err
	}
	if cfg.MaxY, err = toFloatDefault(section["max_y"], cfg.MaxY, "simulation.map.max_y"); err != nil {
		return MapConfig{}, err
	}

	// Bounds may arrive in either order.
	cfg.MinX, cfg.MaxX = normalizeBounds(cfg.MinX, cfg.MaxX)
	cfg.MinY, cfg.MaxY = normalizeBounds(cfg.MinY, cfg.MaxY)

	return cfg, nil
}

func parseLocations(raw interface{}) ([]LocationConfig, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, cityerrors.New(cityerrors.ErrorTypeConfig, "config key 'simulation.locations' must be a list")
	}

	locations := make([]LocationConfig, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, cityerrors.New(cityerrors.ErrorTypeConfig, "each item in 'simulation.locations' must be a mapping")
		}

		id := strings.TrimSpace(toStringDefault(entry["id"], toStringDefault(entry["location_id"], "")))
		if id == "" {
			return nil, cityerrors.New(cityerrors.ErrorTypeValidation, "each simulation location must have an 'id'")
		}

		latRaw, hasLat := entry["lat"]
		lonRaw, hasLon := entry["lon"]
		if !hasLat || !hasLon {
			return nil, cityerrors.Newf(cityerrors.ErrorTypeValidation,
				"simulation location %q must define 'lat' and 'lon'", id)
		}
		lat, err := toFloat(latRaw, "simulation.locations.lat")
		if err != nil {
			return nil, err
		}
		lon, err := toFloat(lonRaw, "simulation.locations.lon")
		if err != nil {
			return nil, err
		}

		locations = append(locations, LocationConfig{ID: id, Lat: lat, Lon: lon})
	}

	return locations, nil
}

// parseUTCTime accepts a yaml timestamp or an ISO-8601 string, with or
// without a zone suffix, and returns the instant in UTC. Zone-less values
// are interpreted as UTC.
func parseUTCTime(raw interface{}) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC(), nil
		}
		if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
			return t.UTC(), nil
		}
		return time.Time{}, cityerrors.New(cityerrors.ErrorTypeConfig,
			"simulation.start_time must be an ISO-8601 datetime string")
	default:
		return time.Time{}, cityerrors.New(cityerrors.ErrorTypeConfig,
			"simulation.start_time must be an ISO-8601 datetime string")
	}
}

func ensurePositiveInt(value int, key string) error {
	if value <= 0 {
		return cityerrors.Newf(cityerrors.ErrorTypeValidation, "%s must be > 0", key)
	}
	return nil
}

func normalizeBounds(a, b float64) (float64, float64) {
	if a <= b {
		return a, b
	}
	return b, a
}

func parseStringList(raw interface{}, defaults []string, key string) ([]string, error) {
	if raw == nil {
		return defaults, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, cityerrors.Newf(cityerrors.ErrorTypeConfig, "%s must be a list of strings", key)
	}

	parsed := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, cityerrors.Newf(cityerrors.ErrorTypeConfig, "%s must be a list of strings", key)
		}
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			parsed = append(parsed, trimmed)
		}
	}
	if len(parsed) == 0 {
		return defaults, nil
	}
	return parsed, nil
}
